package cache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/citytrip/playlistbridge/pkg/logger"
	"github.com/citytrip/playlistbridge/pkg/playlist"
)

// DefaultRetention is how long a submission stays resolvable after it is
// pushed. Buttons on a post older than this answer with an "unavailable"
// notice instead of the cached data.
const DefaultRetention = 30 * time.Minute

type entry struct {
	payload   playlist.Payload
	createdAt time.Time
}

// Store keeps recently pushed payloads keyed by generated submission ID so
// that button interactions arriving minutes later can recover their context.
// Entries expire after the retention window regardless of reads.
type Store struct {
	mu        sync.RWMutex
	entries   map[string]entry
	retention time.Duration
	node      *snowflake.Node
}

// New creates a store with the given retention window. IDs are snowflakes
// (millisecond timestamp + node + sequence); the node number is drawn at
// random so two bridge processes started in the same millisecond do not
// collide.
func New(retention time.Duration) (*Store, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	node, err := snowflake.NewNode(rand.Int64N(1024))
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	return &Store{
		entries:   make(map[string]entry),
		retention: retention,
		node:      node,
	}, nil
}

// Put stores the payload under a freshly generated submission ID and
// returns the ID. The entry expires retention after now.
func (s *Store) Put(p playlist.Payload) string {
	id := s.node.Generate().String()
	s.mu.Lock()
	s.entries[id] = entry{payload: p, createdAt: time.Now()}
	s.mu.Unlock()
	return id
}

// Get returns the payload stored under id. The second return is false when
// the id was never stored or its entry has expired. An expired entry is
// never returned even if the sweeper has not collected it yet.
func (s *Store) Get(id string) (playlist.Payload, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || time.Since(e.createdAt) >= s.retention {
		return playlist.Payload{}, false
	}
	return e.payload, true
}

// Len reports the number of entries currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Run sweeps expired entries until ctx is cancelled. Reads already refuse
// expired entries, so the sweep only reclaims memory; its interval does not
// affect correctness.
func (s *Store) Run(ctx context.Context) {
	interval := s.retention / 10
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(time.Now()); n > 0 {
				logger.DebugCF("cache", "Swept expired submissions", map[string]any{
					"evicted":   n,
					"remaining": s.Len(),
				})
			}
		}
	}
}

func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, e := range s.entries {
		if now.Sub(e.createdAt) >= s.retention {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}
