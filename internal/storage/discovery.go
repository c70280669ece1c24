package storage

import (
	"fmt"
	"time"

	"github.com/hashicorp/mdns"
)

const syncServiceType = "_jobzai-sync._tcp"

// Discover browses the local network for a board sync service and returns
// its host:port. Used when no sync URL is configured explicitly.
func Discover(timeout time.Duration) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)
	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			select {
			case found <- fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port):
			default:
			}
		}
	}()
	if err := mdns.Lookup(syncServiceType, entries); err != nil {
		close(entries)
		return "", fmt.Errorf("mdns lookup: %w", err)
	}
	close(entries)

	select {
	case addr := <-found:
		return addr, nil
	case <-time.After(timeout):
		return "", fmt.Errorf("no %s service found", syncServiceType)
	}
}
