package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/citytrip/playlistbridge/pkg/playlist"
)

func TestPutGetRoundtrip(t *testing.T) {
	s, err := New(time.Minute)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p := playlist.Payload{Title: "Trip", City: "beijing"}
	id := s.Put(p)
	if id == "" {
		t.Fatal("Put returned empty id")
	}

	got, ok := s.Get(id)
	if !ok {
		t.Fatal("Get returned not found immediately after Put")
	}
	if got.Title != "Trip" || got.City != "beijing" {
		t.Errorf("Get = %+v, want stored payload", got)
	}
}

func TestGetUnknownID(t *testing.T) {
	s, err := New(time.Minute)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := s.Get("nope"); ok {
		t.Error("Get of unknown id reported found")
	}
}

func TestGetRefusesExpiredEntry(t *testing.T) {
	s, err := New(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	id := s.Put(playlist.Payload{Title: "Trip"})
	time.Sleep(40 * time.Millisecond)

	if _, ok := s.Get(id); ok {
		t.Error("Get returned an entry past its retention window")
	}
}

func TestSweepEvictsExpiredOnly(t *testing.T) {
	s, err := New(30 * time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	old := s.Put(playlist.Payload{Title: "old"})
	time.Sleep(40 * time.Millisecond)
	fresh := s.Put(playlist.Payload{Title: "fresh"})

	if n := s.sweep(time.Now()); n != 1 {
		t.Errorf("sweep evicted %d entries, want 1", n)
	}
	if _, ok := s.Get(old); ok {
		t.Error("expired entry survived sweep")
	}
	if _, ok := s.Get(fresh); !ok {
		t.Error("fresh entry was evicted")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	s, err := New(time.Minute)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancel")
	}
}

func TestConcurrentPutIDsAreUnique(t *testing.T) {
	s, err := New(time.Minute)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	const (
		workers = 10
		perWork = 1000
	)

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWork)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]string, 0, perWork)
			for i := 0; i < perWork; i++ {
				ids = append(ids, s.Put(playlist.Payload{}))
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				if seen[id] {
					t.Errorf("duplicate submission id %q", id)
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWork {
		t.Errorf("got %d unique ids, want %d", len(seen), workers*perWork)
	}
}

func TestConcurrentGetDuringSweep(t *testing.T) {
	s, err := New(10 * time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	id := s.Put(playlist.Payload{Title: "racy"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				// Either outcome is fine; this must just never corrupt.
				if p, ok := s.Get(id); ok && p.Title != "racy" {
					t.Errorf("Get returned corrupt payload %+v", p)
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			s.sweep(time.Now())
			time.Sleep(time.Millisecond)
		}
	}()
	wg.Wait()
}
