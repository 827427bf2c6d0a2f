package service

import (
	"context"
	"testing"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateViolation_Defaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	v, err := f.violations.CreateViolation(ctx, Actor{UserID: 2, Username: "violations_officer"}, ViolationRequest{PlateNumber: " ABC123 "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ID)
	assert.Equal(t, "ABC123", v.PlateNumber)
	assert.Equal(t, domain.DefaultViolationType, v.ViolationType)
	assert.Equal(t, domain.DefaultLocation, v.Location)
	assert.Equal(t, "2024-03-15", v.Date)
	assert.Equal(t, "12:00:00", v.Time)
	assert.Equal(t, domain.ViolationNew, v.Status)
	assert.Equal(t, domain.SourceManual, v.Source)
	assert.Equal(t, float64(100), v.Confidence)
	require.NotNil(t, v.CreatedBy)
	assert.Equal(t, int64(2), *v.CreatedBy)

	require.Len(t, f.events.ofType(events.TypeViolationCreated), 1)

	// vehicles are only touched by sync
	vehicles, err := f.vehicles.ListVehicles(ctx)
	require.NoError(t, err)
	assert.Empty(t, vehicles)
}

func TestCreateViolation_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := map[string]ViolationRequest{
		"missing plate": {},
		"bad status":    {PlateNumber: "A", Status: "closed"},
		"negative fine": {PlateNumber: "A", Fine: -1},
		"confidence":    {PlateNumber: "A", Confidence: 101},
	}
	for name, req := range cases {
		_, err := f.violations.CreateViolation(ctx, Actor{}, req)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), name)
	}
}

func TestViolationLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	v, err := f.violations.CreateViolation(ctx, Actor{}, ViolationRequest{PlateNumber: "A1", Date: "2024-03-01"})
	require.NoError(t, err)

	got, err := f.violations.GetViolation(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "A1", got.PlateNumber)

	resolved := domain.ViolationResolved
	fine := 150.0
	updated, err := f.violations.UpdateViolation(ctx, Actor{UserID: 1}, v.ID, ViolationPatch{Status: &resolved, Fine: &fine})
	require.NoError(t, err)
	assert.Equal(t, domain.ViolationResolved, updated.Status)
	assert.Equal(t, 150.0, updated.Fine)
	assert.Equal(t, "2024-03-01", updated.Date)
	require.NotNil(t, updated.UpdatedBy)

	require.NoError(t, f.violations.DeleteViolation(ctx, Actor{}, v.ID))
	_, err = f.violations.GetViolation(ctx, v.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(f.violations.DeleteViolation(ctx, Actor{}, v.ID)))

	_, err = f.violations.UpdateViolation(ctx, Actor{}, 99, ViolationPatch{})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestSearchViolations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addViolations(t, f, "abc-1", "2024-02-10")
	addViolations(t, f, "ABC-2", "2024-03-01")
	addViolations(t, f, "xyz-3", "2024-03-02")

	got, err := f.violations.SearchViolations(ctx, ViolationQuery{Plate: "abc"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.violations.SearchViolations(ctx, ViolationQuery{Date: "2024-03"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.violations.SearchViolations(ctx, ViolationQuery{Plate: "ABC", Date: "2024-03"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ABC-2", got[0].PlateNumber)
}

func TestViolationIDsAreMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addViolations(t, f, "A", "2024-03-01", "2024-03-02", "2024-03-03")
	require.NoError(t, f.violations.DeleteViolation(ctx, Actor{}, 2))

	v, err := f.violations.CreateViolation(ctx, Actor{}, ViolationRequest{PlateNumber: "B"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), v.ID)
}
