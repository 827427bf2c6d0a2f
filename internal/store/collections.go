package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Revision identifies the snapshot a caller read. Save succeeds only while
// the stored snapshot is still the one behind this revision.
type Revision struct {
	n   int64
	raw string
}

// Number is the stored revision counter (0 for absent or legacy snapshots).
func (r Revision) Number() int64 { return r.n }

// Exists reports whether the snapshot was present when it was read.
func (r Revision) Exists() bool { return r.raw != "" }

type snapshot struct {
	Revision  int64           `json:"revision"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Items     json.RawMessage `json:"items"`
}

// Collections stores each named collection as one JSON snapshot.
type Collections struct {
	kv  KV
	now func() time.Time
}

func NewCollections(kv KV) *Collections {
	return &Collections{kv: kv, now: time.Now}
}

// KV exposes the underlying store for non-collection keys (sessions).
func (c *Collections) KV() KV { return c.kv }

// Load decodes the items of collection name into out.
// A missing key leaves out untouched and returns the zero Revision.
// Bare JSON arrays (snapshots written before revisions existed) load as revision 0.
func (c *Collections) Load(ctx context.Context, name string, out any) (Revision, error) {
	raw, err := c.kv.Get(ctx, name)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return Revision{}, nil
		}
		return Revision{}, fmt.Errorf("load %s: %w", name, err)
	}
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return Revision{}, fmt.Errorf("decode %s: %w", name, err)
		}
		return Revision{raw: raw}, nil
	}
	var snap snapshot
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return Revision{}, fmt.Errorf("decode %s: %w", name, err)
	}
	if len(snap.Items) > 0 {
		if err := json.Unmarshal(snap.Items, out); err != nil {
			return Revision{}, fmt.Errorf("decode %s items: %w", name, err)
		}
	}
	return Revision{n: snap.Revision, raw: raw}, nil
}

// Save replaces collection name with items if it is still at rev.
// Returns ErrConflict (wrapped) when another writer got there first.
func (c *Collections) Save(ctx context.Context, name string, rev Revision, items any) (Revision, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return rev, fmt.Errorf("encode %s: %w", name, err)
	}
	snap := snapshot{Revision: rev.n + 1, UpdatedAt: c.now().UTC(), Items: data}
	next, err := json.Marshal(snap)
	if err != nil {
		return rev, fmt.Errorf("encode %s: %w", name, err)
	}
	if err := c.kv.CompareAndSwap(ctx, name, rev.raw, string(next)); err != nil {
		return rev, fmt.Errorf("save %s: %w", name, err)
	}
	return Revision{n: snap.Revision, raw: string(next)}, nil
}

// Replace overwrites collection name regardless of concurrent writers,
// still bumping the revision so stale readers fail their next Save.
func (c *Collections) Replace(ctx context.Context, name string, items any) error {
	var discard json.RawMessage
	rev, err := c.Load(ctx, name, &discard)
	if err != nil {
		// unreadable snapshot: start over from revision 0
		rev = Revision{}
		if err := c.kv.Delete(ctx, name); err != nil {
			return fmt.Errorf("replace %s: %w", name, err)
		}
	}
	_, err = c.Save(ctx, name, rev, items)
	return err
}

// Exists reports whether collection name has been written at least once.
func (c *Collections) Exists(ctx context.Context, name string) (bool, error) {
	_, err := c.kv.Get(ctx, name)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove deletes the given collections.
func (c *Collections) Remove(ctx context.Context, names ...string) error {
	return c.kv.Delete(ctx, names...)
}
