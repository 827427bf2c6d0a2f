// Package formtrack tracks unsaved edits to open forms so navigation can be
// guarded while any of them differs from its last saved snapshot.
package formtrack

import (
	"errors"
	"sort"
	"sync"
)

// DefaultConfirmMessage prompt shown before leaving with unsaved changes.
const DefaultConfirmMessage = "لديك تغييرات غير محفوظة. هل تريد المغادرة؟"

var ErrUnknownForm = errors.New("form is not tracked")

// Values field name to ordered values; multi-value fields such as checkbox groups keep every value.
type Values map[string][]string

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// Equal compares over the union of keys. A missing key equals an empty sequence
// or a single empty string, the way an untouched input submits.
func Equal(a, b Values) bool {
	for k, av := range a {
		if !sameValues(av, b[k]) {
			return false
		}
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok && !sameValues(nil, bv) {
			return false
		}
	}
	return true
}

func sameValues(a, b []string) bool {
	a, b = normalize(a), normalize(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func normalize(v []string) []string {
	if len(v) == 1 && v[0] == "" {
		return nil
	}
	return v
}

type form struct {
	snapshot Values
	current  Values
	dirty    bool
}

func (f *form) check() bool {
	f.dirty = !Equal(f.snapshot, f.current)
	return f.dirty
}

// Tracker dirty state for the forms of one user session. Safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	forms     map[string]*form
	enabled   bool
	dirty     bool
	listeners []func(dirty bool)
}

func NewTracker() *Tracker {
	return &Tracker{forms: map[string]*form{}, enabled: true}
}

// State read-only view of a tracker.
type State struct {
	Dirty   bool            `json:"dirty"`
	Enabled bool            `json:"enabled"`
	Forms   map[string]bool `json:"forms"`
}

// Track snapshots values as the clean state of form id, replacing any previous tracking.
func (t *Tracker) Track(id string, values Values) {
	t.mu.Lock()
	t.forms[id] = &form{snapshot: values.clone(), current: values.clone()}
	notify := t.recompute()
	t.mu.Unlock()
	notify()
}

// Update sets one field of the live form and returns whether the form is now dirty.
func (t *Tracker) Update(id, field string, values ...string) (bool, error) {
	return t.mutate(id, func(f *form) {
		f.current[field] = append([]string(nil), values...)
	})
}

// SetValues replaces every live field of the form.
func (t *Tracker) SetValues(id string, values Values) (bool, error) {
	return t.mutate(id, func(f *form) {
		f.current = values.clone()
	})
}

// MarkAsSaved re-snapshots the form's current values without clearing them.
func (t *Tracker) MarkAsSaved(id string) error {
	_, err := t.mutate(id, func(f *form) {
		f.snapshot = f.current.clone()
	})
	return err
}

func (t *Tracker) MarkAllSaved() {
	t.mu.Lock()
	for _, f := range t.forms {
		f.snapshot = f.current.clone()
		f.dirty = false
	}
	notify := t.recompute()
	t.mu.Unlock()
	notify()
}

// Reset clears every field of the form and re-snapshots the empty form.
func (t *Tracker) Reset(id string) error {
	_, err := t.mutate(id, func(f *form) {
		cleared := make(Values, len(f.current))
		for k := range f.current {
			cleared[k] = nil
		}
		f.current = cleared
		f.snapshot = cleared.clone()
	})
	return err
}

// Untrack forgets the form and recomputes the global flag from the rest.
func (t *Tracker) Untrack(id string) {
	t.mu.Lock()
	delete(t.forms, id)
	notify := t.recompute()
	t.mu.Unlock()
	notify()
}

// Dirty is true while any tracked form differs from its snapshot.
func (t *Tracker) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty
}

func (t *Tracker) FormDirty(id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	f, ok := t.forms[id]
	if !ok {
		return false, ErrUnknownForm
	}
	return f.dirty, nil
}

// SetEnabled turns navigation guarding on or off; tracking continues either way.
func (t *Tracker) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

// ConfirmNavigation reports whether leaving may proceed. confirm is consulted
// only while guarding is enabled and some form is dirty.
func (t *Tracker) ConfirmNavigation(confirm func(message string) bool) bool {
	t.mu.Lock()
	guard := t.enabled && t.dirty
	t.mu.Unlock()
	if !guard {
		return true
	}
	if confirm == nil {
		return false
	}
	return confirm(DefaultConfirmMessage)
}

// OnChange registers fn to run whenever the global dirty flag flips.
func (t *Tracker) OnChange(fn func(dirty bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := State{Dirty: t.dirty, Enabled: t.enabled, Forms: make(map[string]bool, len(t.forms))}
	for id, f := range t.forms {
		s.Forms[id] = f.dirty
	}
	return s
}

// FormIDs tracked form ids in sorted order.
func (t *Tracker) FormIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.forms))
	for id := range t.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (t *Tracker) mutate(id string, fn func(f *form)) (bool, error) {
	t.mu.Lock()
	f, ok := t.forms[id]
	if !ok {
		t.mu.Unlock()
		return false, ErrUnknownForm
	}
	fn(f)
	dirty := f.check()
	notify := t.recompute()
	t.mu.Unlock()
	notify()
	return dirty, nil
}

// recompute refreshes the global flag and returns the listener calls to make
// once the lock is released. Must be called with mu held.
func (t *Tracker) recompute() func() {
	dirty := false
	for _, f := range t.forms {
		if f.dirty {
			dirty = true
			break
		}
	}
	if dirty == t.dirty {
		return func() {}
	}
	t.dirty = dirty
	listeners := append([]func(bool){}, t.listeners...)
	return func() {
		for _, fn := range listeners {
			fn(dirty)
		}
	}
}
