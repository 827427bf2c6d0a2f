package repository

import (
	"context"
	"testing"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_LoadEmptyIsNotNil(t *testing.T) {
	c := NewStickersCollection(store.NewCollections(store.NewMemoryKV()))

	items, rev, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.False(t, rev.Exists())
	assert.Equal(t, KeyStickers, c.Name())
}

func TestCollection_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	c := NewViolationsCollection(store.NewCollections(store.NewMemoryKV()))

	items, rev, err := c.Load(ctx)
	require.NoError(t, err)
	items = append(items, domain.Violation{ID: 1, PlateNumber: "ABC123"})
	_, err = c.Save(ctx, items, rev)
	require.NoError(t, err)

	got, _, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ABC123", got[0].PlateNumber)

	ok, err := c.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNextID(t *testing.T) {
	id := func(s domain.Sticker) int64 { return s.ID }
	assert.Equal(t, int64(1), NextID([]domain.Sticker{}, id))
	assert.Equal(t, int64(8), NextID([]domain.Sticker{{ID: 3}, {ID: 7}, {ID: 2}}, id))
}

func TestIndexOf(t *testing.T) {
	items := []domain.Sticker{{ID: 3}, {ID: 7}}
	assert.Equal(t, 1, IndexOf(items, func(s domain.Sticker) bool { return s.ID == 7 }))
	assert.Equal(t, -1, IndexOf(items, func(s domain.Sticker) bool { return s.ID == 9 }))
}
