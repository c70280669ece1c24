package main

import (
	"context"
	"flag"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/geom"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/storage"
	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/ui"
)

const loadTimeout = 10 * time.Second

func main() {
	remote := flag.String("remote", "", "sync service address (host:port or ws:// url); empty uses the local database, \"auto\" discovers one on the LAN")
	board := flag.String("board", "", "board context key to open; defaults to the last opened board")
	dbPath := flag.String("db", "", "path to the local database; defaults to the user data directory")
	flag.Parse()

	a := app.NewWithID("com.codeofyukicks.jobzai.whiteboard")
	prefs := a.Preferences()

	syncURL := *remote
	if syncURL == "" {
		syncURL = prefs.String("sync.url")
	}
	boardKey := *board
	if boardKey == "" {
		boardKey = prefs.StringWithFallback("board.last", "default")
	}
	prefs.SetString("board.last", boardKey)

	backend, err := openBackend(syncURL, *dbPath)
	if err != nil {
		log.Fatalf("[main] opening storage: %v", err)
	}
	defer backend.Close()

	win := a.NewWindow("jobzai whiteboard")
	win.Resize(fyne.NewSize(1280, 800))

	store := state.NewStore()
	if prefs.BoolWithFallback("view.grid", store.ShowGrid()) != store.ShowGrid() {
		store.ToggleGrid()
	}
	boardWidget := ui.NewBoardWidget(store)
	toolbar := ui.NewToolbar(store, boardWidget, win)
	win.SetContent(container.NewBorder(toolbar.Root(), nil, nil, nil, boardWidget))

	// Ctrl+Y is the alternate redo binding; Ctrl+Shift+Z arrives through
	// the widget's standard shortcut handling.
	win.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyY,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) { store.Redo() })

	saver := storage.NewSaver(backend, storage.SaveDebounce)
	sess := &session{store: store, backend: backend, saver: saver}

	store.Subscribe(func(kind state.EventKind) {
		switch kind {
		case state.EventObjects, state.EventCanvas:
			// Selection and tool changes are ephemeral; only content
			// and viewport changes reach disk.
			sess.scheduleSave()
		case state.EventView:
			prefs.SetBool("view.grid", store.ShowGrid())
		}
	})

	sess.open(boardKey)

	win.SetCloseIntercept(func() {
		saver.Flush()
		win.Close()
	})
	win.ShowAndRun()
	saver.Flush()
}

// openBackend picks the persistence adapter: a remote sync service when
// one is named (or discoverable), the local database otherwise.
func openBackend(remote, dbPath string) (storage.Store, error) {
	if remote != "" {
		url := remote
		if url == "auto" {
			url = ""
		}
		rs, err := storage.DialRemote(url)
		if err != nil {
			return nil, err
		}
		log.Printf("[main] using remote sync service")
		return rs, nil
	}
	if dbPath == "" {
		dbPath = storage.DefaultDBPath()
	}
	return storage.OpenSQLite(dbPath)
}

// session ties the state container to one board context at a time. A
// generation counter guards against a slow load for a board the user has
// already switched away from clobbering the current one.
type session struct {
	store   *state.Store
	backend storage.Store
	saver   *storage.Saver

	mu         sync.Mutex
	key        string
	generation int
	loading    bool
}

func (s *session) open(key string) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.key = key
	s.loading = true
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		data, err := s.backend.Load(ctx, key)
		fyne.Do(func() { s.finishLoad(gen, key, data, err) })
	}()
}

// finishLoad applies the result of a board load on the UI goroutine. A
// load error leaves saves suppressed: whatever ends up on screen must
// never debounce-save over a persisted board we could not read.
func (s *session) finishLoad(gen int, key string, data *storage.BoardData, err error) {
	s.mu.Lock()
	stale := gen != s.generation
	s.mu.Unlock()
	if stale {
		return
	}
	if err != nil {
		log.Printf("[main] load of %q failed, saves suspended until reopen: %v", key, err)
		return
	}
	if data == nil {
		s.store.LoadObjects(nil)
		s.store.SetCanvas(geom.DefaultCanvas())
	} else {
		s.store.LoadObjects(data.Objects)
		s.store.SetCanvas(data.Canvas)
	}
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *session) scheduleSave() {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return
	}
	key := s.key
	s.mu.Unlock()

	s.saver.Schedule(key, func() storage.BoardData {
		return storage.BoardData{
			Objects: s.store.Objects(),
			Canvas:  s.store.Canvas(),
		}
	})
}
