package httpapi

import (
	"net/http"
	"time"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionView struct {
	Session       *domain.Session `json:"session"`
	IdleExpiresAt time.Time       `json:"idleExpiresAt"`
	Permissions   map[string]bool `json:"permissions"`
	RoleName      string          `json:"roleName"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, maxBodyBytes, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// bad credentials are not a session problem; keep code -1
		if domain.KindOf(err) == domain.KindAuth {
			writeJSON(w, http.StatusUnauthorized, FailKind(domain.KindAuth, domain.MessageOf(err)))
			return
		}
		writeError(w, h.logger, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"token":         res.Token,
		"session":       res.Session,
		"idleExpiresAt": res.ExpiresAt,
		"permissions":   h.auth.Permissions(res.Session.User.Role),
		"roleName":      domain.RoleNames[res.Session.User.Role],
	}))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), tokenFromRequest(r)); err != nil {
		writeError(w, h.logger, "logout", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// Session current session; the request itself already counted as activity.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, 0)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, Ok(sessionView{
		Session:       sess,
		IdleExpiresAt: sess.LastActivity.Add(h.auth.Timeout()),
		Permissions:   h.auth.Permissions(sess.User.Role),
		RoleName:      domain.RoleNames[sess.User.Role],
	}))
}

// Permissions the full capability matrix with role display names.
func (h *AuthHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	sess, ok := authorize(w, r, 0)
	if !ok {
		return
	}
	roles := []domain.Role{domain.RoleAdmin, domain.RoleViolationEntry, domain.RoleInquiry}
	matrix := make(map[domain.Role]map[string]bool, len(roles))
	for _, role := range roles {
		matrix[role] = h.auth.Permissions(role)
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"role":      sess.User.Role,
		"current":   h.auth.Permissions(sess.User.Role),
		"matrix":    matrix,
		"roleNames": domain.RoleNames,
	}))
}
