package repository

import (
	"context"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/store"
)

// Collection keys.
const (
	KeyUsers            = "users"
	KeyViolations       = "violations"
	KeyStickers         = "stickers"
	KeyVehicles         = "vehiclesDatabase"
	KeyResidentialUnits = "residential_units"
)

// AllKeys every collection managed by the record services, in export order.
var AllKeys = []string{KeyUsers, KeyStickers, KeyViolations, KeyVehicles, KeyResidentialUnits}

// Collection typed whole-snapshot access to one named collection.
// Callers load, mutate the slice in memory and save it back with the revision they loaded.
type Collection[T any] struct {
	store *store.Collections
	name  string
}

func NewCollection[T any](s *store.Collections, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) Name() string { return c.name }

// Load never returns a nil slice.
func (c *Collection[T]) Load(ctx context.Context) ([]T, store.Revision, error) {
	var items []T
	rev, err := c.store.Load(ctx, c.name, &items)
	if err != nil {
		return nil, rev, err
	}
	if items == nil {
		items = []T{}
	}
	return items, rev, nil
}

func (c *Collection[T]) Save(ctx context.Context, items []T, rev store.Revision) (store.Revision, error) {
	return c.store.Save(ctx, c.name, rev, items)
}

func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	return c.store.Replace(ctx, c.name, items)
}

func (c *Collection[T]) Exists(ctx context.Context) (bool, error) {
	return c.store.Exists(ctx, c.name)
}

func NewUsersCollection(s *store.Collections) *Collection[domain.User] {
	return NewCollection[domain.User](s, KeyUsers)
}

func NewStickersCollection(s *store.Collections) *Collection[domain.Sticker] {
	return NewCollection[domain.Sticker](s, KeyStickers)
}

func NewViolationsCollection(s *store.Collections) *Collection[domain.Violation] {
	return NewCollection[domain.Violation](s, KeyViolations)
}

func NewVehiclesCollection(s *store.Collections) *Collection[domain.Vehicle] {
	return NewCollection[domain.Vehicle](s, KeyVehicles)
}

func NewUnitsCollection(s *store.Collections) *Collection[domain.ResidentialUnit] {
	return NewCollection[domain.ResidentialUnit](s, KeyResidentialUnits)
}

// NextID max(existing)+1, or 1 for an empty collection.
func NextID[T any](items []T, id func(T) int64) int64 {
	var max int64
	for _, it := range items {
		if v := id(it); v > max {
			max = v
		}
	}
	return max + 1
}

// IndexOf position of the first item whose id matches, -1 if none.
func IndexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}
