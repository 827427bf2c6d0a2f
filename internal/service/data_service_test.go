package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDataService_Export(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.users.EnsureDefaultUsers(ctx)
	require.NoError(t, err)
	addViolations(t, f, "A", "2024-03-01")

	svc := NewDataService(f.collections, zap.NewNop())
	dump, err := svc.Export(ctx, false)
	require.NoError(t, err)
	require.Len(t, dump.Collections, len(repository.AllKeys))
	assert.JSONEq(t, `[]`, string(dump.Collections[repository.KeyStickers]))

	var users []domain.User
	require.NoError(t, json.Unmarshal(dump.Collections[repository.KeyUsers], &users))
	require.Len(t, users, 3)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}

	var violations []domain.Violation
	require.NoError(t, json.Unmarshal(dump.Collections[repository.KeyViolations], &violations))
	assert.Len(t, violations, 1)

	full, err := svc.Export(ctx, true)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(full.Collections[repository.KeyUsers], &users))
	assert.NotEmpty(t, users[0].PasswordHash)
}

func TestDataService_Import(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	addViolations(t, f, "OLD", "2024-01-01")
	svc := NewDataService(f.collections, zap.NewNop())

	_, err := svc.Import(ctx, DataDump{Collections: map[string]json.RawMessage{"secrets": json.RawMessage(`[]`)}})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = svc.Import(ctx, DataDump{Collections: map[string]json.RawMessage{repository.KeyStickers: json.RawMessage(`{"a":1}`)}})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	imported, err := svc.Import(ctx, DataDump{Collections: map[string]json.RawMessage{
		repository.KeyViolations: json.RawMessage(`[{"id":7,"plateNumber":"NEW","status":"new"}]`),
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{repository.KeyViolations}, imported)

	all, err := f.violations.ListViolations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "NEW", all[0].PlateNumber)

	// writes after an import continue from the imported ids
	v, err := f.violations.CreateViolation(ctx, Actor{}, ViolationRequest{PlateNumber: "NEXT"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), v.ID)
}

func TestDataService_Reset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.users.EnsureDefaultUsers(ctx)
	require.NoError(t, err)
	addViolations(t, f, "A", "2024-03-01")

	require.NoError(t, NewDataService(f.collections, zap.NewNop()).Reset(ctx))

	all, err := f.violations.ListViolations(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	seeded, err := f.users.EnsureDefaultUsers(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
}
