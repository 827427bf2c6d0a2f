package service

import (
	"context"
	"testing"
	"time"

	"github.com/Ali5829511/wwwr/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStickerLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	actor := Actor{UserID: 1, Username: "admin"}

	_, err := f.stickers.CreateSticker(ctx, actor, StickerRequest{ResidentName: "x"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.stickers.CreateSticker(ctx, actor, StickerRequest{ResidentName: "x", PlateNumber: "A", Status: "lost"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	st, err := f.stickers.CreateSticker(ctx, actor, StickerRequest{
		IDNumber:     "1012345678",
		ResidentName: "محمد العتيبي",
		PlateNumber:  "ABC 123",
		UnitType:     domain.UnitVilla,
		Building:     "1001",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.ID)
	assert.Equal(t, domain.StickerActive, st.Status)
	assert.Equal(t, "2024-03-15", st.IssueDate)
	require.NotNil(t, st.CreatedBy)

	canceled := domain.StickerCanceled
	updated, err := f.stickers.UpdateSticker(ctx, actor, st.ID, StickerPatch{Status: &canceled})
	require.NoError(t, err)
	assert.Equal(t, domain.StickerCanceled, updated.Status)
	assert.Equal(t, "ABC 123", updated.PlateNumber)

	got, err := f.stickers.GetSticker(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StickerCanceled, got.Status)

	require.NoError(t, f.stickers.DeleteSticker(ctx, actor, st.ID))
	_, err = f.stickers.GetSticker(ctx, st.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestSearchStickers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, req := range []StickerRequest{
		{IDNumber: "1011111111", ResidentName: "a", PlateNumber: "ABC 1"},
		{IDNumber: "1022222222", ResidentName: "b", PlateNumber: "abc 2"},
		{IDNumber: "1033333333", ResidentName: "c", PlateNumber: "XYZ 3"},
	} {
		_, err := f.stickers.CreateSticker(ctx, Actor{}, req)
		require.NoError(t, err)
	}

	got, err := f.stickers.SearchStickers(ctx, StickerQuery{Plate: "ABC"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.stickers.SearchStickers(ctx, StickerQuery{IDNumber: "10333"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "XYZ 3", got[0].PlateNumber)
}

func TestStickerStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.stickers.CreateSticker(ctx, Actor{}, StickerRequest{ResidentName: "a", PlateNumber: "1", UnitType: domain.UnitVilla})
	require.NoError(t, err)
	f.clock.Advance(-3 * 24 * time.Hour)
	_, err = f.stickers.CreateSticker(ctx, Actor{}, StickerRequest{ResidentName: "b", PlateNumber: "2", UnitType: domain.UnitApartment, Status: domain.StickerViolating})
	require.NoError(t, err)
	f.clock.Advance(3 * 24 * time.Hour)

	stats, err := f.stickers.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Violating)
	assert.Equal(t, 1, stats.Today)
	assert.Equal(t, 2, stats.ThisWeek)
	assert.Equal(t, 1, stats.Villas)
	assert.Equal(t, 1, stats.Apartments)
}

func TestEnsureDefaultStickers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	n, err := f.stickers.EnsureDefaultStickers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := f.stickers.ListStickers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, testNow, all[0].CreatedDate)

	stats, err := f.stickers.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Inactive)
	assert.Equal(t, 2, stats.Villas)
	assert.Equal(t, 1, stats.Apartments)

	// an existing collection is left alone, even after every sticker was deleted
	for _, s := range all {
		require.NoError(t, f.stickers.DeleteSticker(ctx, Actor{}, s.ID))
	}
	n, err = f.stickers.EnsureDefaultStickers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	all, err = f.stickers.ListStickers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
