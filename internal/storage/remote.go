package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CodeOfYukicks/jobzai-whiteboard/internal/state"
)

// remote protocol message. One request, one response, in order; the board
// is single-editor so there is never a competing writer on the socket.
type syncMessage struct {
	Type       string     `json:"type"` // "load" | "save" | "board" | "ack" | "error"
	ContextKey string     `json:"contextKey,omitempty"`
	Found      bool       `json:"found,omitempty"`
	Board      *BoardData `json:"board,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// RemoteStore persists boards through the hosted sync service over a
// websocket. It implements the same Store contract as the sqlite adapter,
// so the rest of the app does not care which one is wired in.
type RemoteStore struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// DialRemote connects to the sync service. url is a ws:// or wss://
// endpoint; when empty the service is discovered over mDNS.
func DialRemote(url string) (*RemoteStore, error) {
	if url == "" {
		addr, err := Discover(3 * time.Second)
		if err != nil {
			return nil, fmt.Errorf("discover sync service: %w", err)
		}
		url = "ws://" + addr + "/board/sync"
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial sync service: %w", err)
	}
	return &RemoteStore{conn: conn}, nil
}

func (r *RemoteStore) roundTrip(ctx context.Context, req syncMessage) (*syncMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = r.conn.SetWriteDeadline(deadline)
		_ = r.conn.SetReadDeadline(deadline)
	}
	if err := r.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("send %s: %w", req.Type, err)
	}
	var resp syncMessage
	if err := r.conn.ReadJSON(&resp); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Type == "error" {
		return nil, fmt.Errorf("sync service: %s", resp.Error)
	}
	return &resp, nil
}

func (r *RemoteStore) Load(ctx context.Context, contextKey string) (*BoardData, error) {
	resp, err := r.roundTrip(ctx, syncMessage{Type: "load", ContextKey: contextKey})
	if err != nil {
		return nil, err
	}
	if !resp.Found || resp.Board == nil {
		return nil, nil
	}
	resp.Board.Canvas = resp.Board.Canvas.Clamped()
	return resp.Board, nil
}

func (r *RemoteStore) Save(ctx context.Context, contextKey string, data BoardData) error {
	if data.Objects == nil {
		data.Objects = []state.Object{}
	}
	_, err := r.roundTrip(ctx, syncMessage{Type: "save", ContextKey: contextKey, Board: &data})
	return err
}

func (r *RemoteStore) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.Close()
}
