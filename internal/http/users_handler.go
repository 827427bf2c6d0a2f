package httpapi

import (
	"net/http"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

const usersPrefix = "/api/v1/users/"

type UsersHandler struct {
	users  service.UserService
	logger *zap.Logger
}

func NewUsersHandler(users service.UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, domain.CanManageUsers)
	if !ok {
		return
	}
	switch {
	case r.URL.Path == "/api/v1/users" && r.Method == http.MethodGet:
		h.List(w, r)
	case r.URL.Path == "/api/v1/users" && r.Method == http.MethodPost:
		h.Create(w, r, sess)
	case r.URL.Path == "/api/v1/users/stats" && r.Method == http.MethodGet:
		h.Stats(w, r)
	case r.URL.Path == "/api/v1/users/stats":
		w.WriteHeader(http.StatusMethodNotAllowed)
	case pathID(r.URL.Path, usersPrefix) != "" && r.Method == http.MethodGet:
		h.Get(w, r)
	case pathID(r.URL.Path, usersPrefix) != "" && r.Method == http.MethodPut:
		h.Update(w, r, sess)
	case pathID(r.URL.Path, usersPrefix) != "" && r.Method == http.MethodDelete:
		h.Delete(w, r, sess)
	case r.URL.Path == "/api/v1/users" || pathID(r.URL.Path, usersPrefix) != "":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.logger, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(users))
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r.URL.Path, usersPrefix)
	if !ok {
		return
	}
	u, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(u))
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	var req service.CreateUserRequest
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	u, err := h.users.CreateUser(r.Context(), actor(sess), req)
	if err != nil {
		writeError(w, h.logger, "create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(u))
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	id, ok := parseID(w, r.URL.Path, usersPrefix)
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	u, err := h.users.UpdateUser(r.Context(), actor(sess), id, req)
	if err != nil {
		writeError(w, h.logger, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(u))
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	id, ok := parseID(w, r.URL.Path, usersPrefix)
	if !ok {
		return
	}
	if err := h.users.DeleteUser(r.Context(), actor(sess), id); err != nil {
		writeError(w, h.logger, "delete user", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *UsersHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, "user stats", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}
