package admission

import (
	"context"
	"sync"
	"time"
)

// clientWindow holds the admission times of one client in a ring buffer
// sized to the limit. head is the oldest entry.
type clientWindow struct {
	mu      sync.Mutex
	times   []time.Time
	head    int
	count   int
	evicted bool
}

func (w *clientWindow) prune(cutoff time.Time) {
	for w.count > 0 && !w.times[w.head].After(cutoff) {
		w.head = (w.head + 1) % len(w.times)
		w.count--
	}
}

func (w *clientWindow) push(t time.Time) {
	w.times[(w.head+w.count)%len(w.times)] = t
	w.count++
}

func (w *clientWindow) newest() time.Time {
	if w.count == 0 {
		return time.Time{}
	}
	return w.times[(w.head+w.count-1)%len(w.times)]
}

// MemoryStore keeps per-client windows in process memory. The map lock is
// held only to find or create a window; the check-and-record sequence runs
// under the window's own lock, so clients never contend with each other.
type MemoryStore struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	clients map[string]*clientWindow
}

func NewMemoryStore(limit int, window time.Duration) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryStore{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientWindow),
	}
}

func (s *MemoryStore) Admit(_ context.Context, key string, now time.Time) (bool, error) {
	for {
		w := s.get(key)
		w.mu.Lock()
		if w.evicted {
			// Swept between lookup and lock; retry against the fresh entry.
			w.mu.Unlock()
			continue
		}
		// An entry expires once now - t >= window.
		w.prune(now.Add(-s.window))
		if w.count >= s.limit {
			w.mu.Unlock()
			return false, nil
		}
		w.push(now)
		w.mu.Unlock()
		return true, nil
	}
}

func (s *MemoryStore) get(key string) *clientWindow {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.clients[key]
	if !ok {
		w = &clientWindow{times: make([]time.Time, s.limit)}
		s.clients[key] = w
	}
	return w
}

func (s *MemoryStore) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Sweep drops clients with no admission inside the window as of now and
// returns how many were removed. Dropped clients start from an empty window,
// which is what they would have after pruning anyway.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.window)
	removed := 0
	for key, w := range s.clients {
		w.mu.Lock()
		if w.count == 0 || !w.newest().After(cutoff) {
			w.evicted = true
			delete(s.clients, key)
			removed++
		}
		w.mu.Unlock()
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := s.Sweep(now)
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}
