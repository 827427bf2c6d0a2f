package service

import (
	"context"
	"testing"

	"github.com/Ali5829511/wwwr/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResidents []domain.Resident

func (s staticResidents) Residents(ctx context.Context) ([]domain.Resident, error) {
	return s, nil
}

func TestGenerateSampleUnits(t *testing.T) {
	units := GenerateSampleUnits(sampleSeed)
	stats := domain.ComputeUnitStatistics(units)
	assert.Equal(t, 1155, stats.Total)
	assert.Equal(t, 600, stats.Old)
	assert.Equal(t, 441, stats.New)
	assert.Equal(t, 114, stats.Villas)
	assert.Greater(t, stats.Occupied, stats.Vacant*10)

	seen := map[int64]bool{}
	for _, u := range units {
		require.False(t, seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
		if u.IsOccupied {
			require.NotNil(t, u.ResidentName)
		}
	}
	assert.Equal(t, units, GenerateSampleUnits(sampleSeed))
}

func TestEnsureSampleUnits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	n, err := f.units.EnsureSampleUnits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1155, n)

	n, err = f.units.EnsureSampleUnits(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	stats, err := f.units.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1155, stats.Total)
}

func TestUnitLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.units.CreateUnit(ctx, UnitRequest{UnitNumber: 1, BuildingNumber: 1, BuildingCategory: "tower"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	villa, err := f.units.CreateUnit(ctx, UnitRequest{UnitNumber: 1, BuildingNumber: 1001, BuildingCategory: domain.CategoryVilla})
	require.NoError(t, err)
	assert.Equal(t, domain.UnitVilla, villa.UnitType)

	_, err = f.units.CreateUnit(ctx, UnitRequest{UnitNumber: 1, BuildingNumber: 1001, BuildingCategory: domain.CategoryVilla})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	apt, err := f.units.CreateUnit(ctx, UnitRequest{UnitNumber: 11, BuildingNumber: 53, BuildingCategory: domain.CategoryNew})
	require.NoError(t, err)
	assert.Equal(t, domain.UnitApartment, apt.UnitType)
	assert.Equal(t, int64(2), apt.ID)

	occupied := true
	name := "فهد"
	updated, err := f.units.UpdateUnit(ctx, apt.ID, UnitPatch{IsOccupied: &occupied, ResidentName: &name})
	require.NoError(t, err)
	assert.True(t, updated.IsOccupied)
	require.NotNil(t, updated.ResidentName)

	blank := " "
	updated, err = f.units.UpdateUnit(ctx, apt.ID, UnitPatch{ResidentName: &blank})
	require.NoError(t, err)
	assert.Nil(t, updated.ResidentName)

	got, err := f.units.SearchUnits(ctx, UnitQuery{Status: domain.OccupancyOccupied})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, apt.ID, got[0].ID)

	_, err = f.units.SearchUnits(ctx, UnitQuery{Status: "half"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	require.NoError(t, f.units.DeleteUnit(ctx, villa.ID))
	_, err = f.units.GetUnit(ctx, villa.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestOccupancy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, req := range []UnitRequest{
		{UnitNumber: 1, BuildingNumber: 1, BuildingCategory: domain.CategoryOld, IsOccupied: true},
		{UnitNumber: 2, BuildingNumber: 1, BuildingCategory: domain.CategoryOld},
	} {
		_, err := f.units.CreateUnit(ctx, req)
		require.NoError(t, err)
	}
	f.units.residents = staticResidents{{Name: "سعود", Phone: "0551234567", BuildingNumber: 1, UnitNumber: 2}}

	report, err := f.units.Occupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Residents)
	assert.Equal(t, 1, report.Statistics.Occupied)
	assert.False(t, report.Units[0].IsOccupied)
	assert.True(t, report.Units[1].IsOccupied)
	assert.Equal(t, "سعود", *report.Units[1].ResidentName)
}
