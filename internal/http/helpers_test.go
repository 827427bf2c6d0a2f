package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ali5829511/wwwr/internal/auth"
	"github.com/Ali5829511/wwwr/internal/formtrack"
	"github.com/Ali5829511/wwwr/internal/repository"
	"github.com/Ali5829511/wwwr/internal/service"
	"github.com/Ali5829511/wwwr/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	t           *testing.T
	server      *httptest.Server
	services    Services
	collections *store.Collections
}

type apiOption func(*Services)

func withReports(r repository.ReportsRepository) apiOption {
	return func(s *Services) { s.Reports = r }
}

func newTestAPI(t *testing.T, timeout time.Duration, opts ...apiOption) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	collections := store.NewCollections(store.NewMemoryKV())
	hasher := auth.NewHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", "housing-admin-test", time.Hour)

	usersColl := repository.NewUsersCollection(collections)
	violationsColl := repository.NewViolationsCollection(collections)
	feed := service.NewFeedLoader("", time.Second, collections, logger)

	s := Services{
		Auth:       service.NewAuthService(usersColl, collections.KV(), tokens, hasher, nil, timeout, logger),
		Users:      service.NewUserService(usersColl, hasher, logger),
		Stickers:   service.NewStickerService(repository.NewStickersCollection(collections), logger),
		Violations: service.NewViolationService(violationsColl, nil, logger),
		Vehicles:   service.NewVehicleService(repository.NewVehiclesCollection(collections), violationsColl, nil, logger),
		Units:      service.NewUnitService(repository.NewUnitsCollection(collections), feed, logger),
		Data:       service.NewDataService(collections, logger),
		Forms:      formtrack.NewRegistry(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.Auth.OnSessionEnd(s.Forms.Drop)

	_, err := s.Users.EnsureDefaultUsers(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(NewAPI(s, logger))
	t.Cleanup(srv.Close)
	return &testAPI{t: t, server: srv, services: s, collections: collections}
}

func (a *testAPI) do(method, path, token string, body any) *http.Response {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.server.URL+path, rd)
	require.NoError(a.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: username, Password: password})
	require.Equal(a.t, http.StatusOK, resp.StatusCode)
	res := decode[map[string]any](a.t, resp)
	token, _ := res.Result["token"].(string)
	require.NotEmpty(a.t, token)
	return token
}

func (a *testAPI) admin() string    { return a.login("admin", "admin123") }
func (a *testAPI) officer() string  { return a.login("violations_officer", "violations123") }
func (a *testAPI) inquirer() string { return a.login("inquiry_user", "inquiry123") }

func decode[T any](t *testing.T, resp *http.Response) Result[T] {
	t.Helper()
	var res Result[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}
