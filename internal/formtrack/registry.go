package formtrack

import "sync"

// Registry one Tracker per session.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewRegistry() *Registry {
	return &Registry{trackers: map[string]*Tracker{}}
}

// For returns the session's tracker, creating it on first use.
func (r *Registry) For(sessionID string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trackers[sessionID]
	if !ok {
		t = NewTracker()
		r.trackers[sessionID] = t
	}
	return t
}

// Drop discards the session's tracker; used when the session ends.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trackers, sessionID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}
