package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinResidents(t *testing.T) {
	units := []ResidentialUnit{
		{ID: 1, BuildingNumber: 3, UnitNumber: 101, BuildingCategory: CategoryOld, UnitType: UnitApartment},
		{ID: 2, BuildingNumber: 3, UnitNumber: 102, BuildingCategory: CategoryOld, UnitType: UnitApartment, IsOccupied: true},
		{ID: 3, BuildingNumber: 1001, UnitNumber: 1, BuildingCategory: CategoryVilla, UnitType: UnitVilla},
	}
	residents := []Resident{
		{Name: "Fahd", Phone: "0500000001", BuildingNumber: 3, UnitNumber: 101},
		{Name: "Omar", Phone: "0500000002", BuildingNumber: 1001, UnitNumber: 1},
	}

	out := JoinResidents(units, residents)
	require.Len(t, out, 3)
	assert.True(t, out[0].IsOccupied)
	require.NotNil(t, out[0].ResidentName)
	assert.Equal(t, "Fahd", *out[0].ResidentName)
	assert.False(t, out[1].IsOccupied, "occupancy is derived, stored flag ignored")
	assert.Nil(t, out[1].ResidentName)
	assert.True(t, out[2].IsOccupied)

	s := ComputeUnitStatistics(out)
	assert.Equal(t, UnitStatistics{Total: 3, Occupied: 2, Vacant: 1, Villas: 1, New: 0, Old: 2}, s)
}

func TestMatchesUnit(t *testing.T) {
	name := "Abdullah"
	u := ResidentialUnit{BuildingNumber: 12, UnitNumber: 304, UnitName: "Apt 304", BuildingCategory: CategoryOld, IsOccupied: true, ResidentName: &name}

	assert.True(t, MatchesUnit(u, "304", OccupancyAny, ""))
	assert.True(t, MatchesUnit(u, "abdu", OccupancyOccupied, CategoryOld))
	assert.False(t, MatchesUnit(u, "", OccupancyVacant, ""))
	assert.False(t, MatchesUnit(u, "", OccupancyAny, CategoryNew))
	assert.False(t, MatchesUnit(u, "nobody", OccupancyAny, ""))
}
