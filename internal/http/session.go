package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/service"

	"go.uber.org/zap"
)

// HeaderSessionToken alternative to "Authorization: Bearer <token>".
const HeaderSessionToken = "X-Session-Token"

type sessionKey struct{}

// SessionFromContext the session attached by SessionMiddleware.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*domain.Session)
	return s, ok && s != nil
}

func withSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(t)
		}
	}
	return strings.TrimSpace(r.Header.Get(HeaderSessionToken))
}

// SessionMiddleware resolves the request token to a live session and records the request
// as user activity. Requests without a live session get 401 with code 60401.
type SessionMiddleware struct {
	auth   service.AuthService
	logger *zap.Logger
}

func NewSessionMiddleware(auth service.AuthService, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{auth: auth, logger: logger}
}

func (m *SessionMiddleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, m.logger, "authenticate", domain.ErrSessionExpired)
			return
		}
		sess, err := m.auth.Touch(r.Context(), token)
		if err != nil {
			writeError(w, m.logger, "authenticate", err)
			return
		}
		next(w, r.WithContext(withSession(r.Context(), sess)))
	}
}

// authorize returns the request session when it grants c, answering 403 otherwise.
// A zero capability only requires a session.
func authorize(w http.ResponseWriter, r *http.Request, c domain.Capability) (*domain.Session, bool) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Result[any]{
			Code: ResultTokenExpired, Type: "error", Kind: domain.KindAuth,
			Message: domain.ErrSessionExpired.Message,
		})
		return nil, false
	}
	if c != 0 && !sess.Can(c) {
		writeJSON(w, http.StatusForbidden, FailKind(domain.KindForbidden, "permission denied: "+c.String()))
		return nil, false
	}
	return sess, true
}

func actor(sess *domain.Session) service.Actor {
	return service.ActorFromSession(sess)
}
