package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Ali5829511/wwwr/internal/auth"
	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/events"
	"github.com/Ali5829511/wwwr/internal/repository"
	"github.com/Ali5829511/wwwr/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionKeyPrefix     = "userSession:"
	currentUserKeyPrefix = "currentUser:"

	// SessionExpiredNotice shown to a user whose session timed out.
	SessionExpiredNotice = "انتهت صلاحية الجلسة. يرجى تسجيل الدخول مرة أخرى."
)

// AuthService login, sessions and the idle timeout.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a token to its live session without counting as activity.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	IsAuthenticated(ctx context.Context, token string) bool
	// Touch records user activity, resetting the idle clock.
	Touch(ctx context.Context, token string) (*domain.Session, error)
	HasPermission(session *domain.Session, name string) bool
	Permissions(role domain.Role) map[string]bool
	// ExpireIdle removes every idle session and returns how many were removed.
	ExpireIdle(ctx context.Context) (int, error)
	// OnSessionEnd registers a callback run after a session is logged out or expired.
	OnSessionEnd(fn func(sessionID string))
	Timeout() time.Duration
}

type LoginResult struct {
	Token     string          `json:"token"`
	Session   *domain.Session `json:"session"`
	ExpiresAt time.Time       `json:"idleExpiresAt"`
}

type authService struct {
	users   *repository.Collection[domain.User]
	kv      store.KV
	tokens  *auth.TokenManager
	hasher  *auth.Hasher
	events  events.Publisher
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	onEnd []func(sessionID string)
}

func NewAuthService(
	users *repository.Collection[domain.User],
	kv store.KV,
	tokens *auth.TokenManager,
	hasher *auth.Hasher,
	publisher events.Publisher,
	timeout time.Duration,
	logger *zap.Logger,
) AuthService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &authService{
		users:   users,
		kv:      kv,
		tokens:  tokens,
		hasher:  hasher,
		events:  publisher,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func currentUserKey(userID int64) string {
	return currentUserKeyPrefix + strconv.FormatInt(userID, 10)
}

func (s *authService) Timeout() time.Duration { return s.timeout }

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	users, _, err := s.users.Load(ctx)
	if err != nil {
		return nil, storageError("login", err)
	}
	idx := repository.IndexOf(users, func(u domain.User) bool { return u.Username == username })
	if idx < 0 {
		s.hasher.VerifyAbsent(password)
		s.logger.Info("Login rejected", zap.String("username", username), zap.String("reason", "unknown user"))
		return nil, domain.ErrInvalidCredentials
	}
	u := users[idx]
	if !s.hasher.Verify(u.PasswordHash, password) {
		s.logger.Info("Login rejected", zap.String("username", username), zap.String("reason", "bad password"))
		return nil, domain.ErrInvalidCredentials
	}
	if u.Status != domain.UserActive {
		s.logger.Info("Login rejected", zap.String("username", username), zap.String("reason", "inactive"))
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	s.recordLastLogin(ctx, u.ID, now)
	u.LastLogin = timePtr(now)

	// one live session per account
	if prev, err := s.kv.Get(ctx, currentUserKey(u.ID)); err == nil && prev != "" {
		if err := s.kv.Delete(ctx, sessionKey(prev)); err != nil {
			return nil, storageError("login", err)
		}
		s.sessionEnded(prev)
	}

	sess := &domain.Session{
		ID:           uuid.NewString(),
		User:         u.Public(),
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.saveSession(ctx, sess); err != nil {
		return nil, storageError("login", err)
	}
	if err := s.kv.Set(ctx, currentUserKey(u.ID), sess.ID, 0); err != nil {
		return nil, storageError("login", err)
	}

	token, err := s.tokens.Generate(sess.ID, u.ID, u.Username, string(u.Role))
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, err, "issue session token")
	}
	s.logger.Info("User logged in", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
	return &LoginResult{Token: token, Session: sess, ExpiresAt: now.Add(s.timeout)}, nil
}

// recordLastLogin is best effort; a concurrent users write must not fail the login.
func (s *authService) recordLastLogin(ctx context.Context, userID int64, at time.Time) {
	users, rev, err := s.users.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to record last login", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	idx := repository.IndexOf(users, func(u domain.User) bool { return u.ID == userID })
	if idx < 0 {
		return
	}
	users[idx].LastLogin = timePtr(at)
	if _, err := s.users.Save(ctx, users, rev); err != nil {
		s.logger.Warn("Failed to record last login", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domain.ErrSessionExpired
	}
	sess, _, err := s.loadSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil
		}
		return storageError("logout", err)
	}
	if err := s.endSession(ctx, sess); err != nil {
		return storageError("logout", err)
	}
	s.logger.Info("User logged out", zap.Int64("user_id", sess.User.ID))
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	sess, _, err := s.resolve(ctx, token)
	return sess, err
}

// resolve returns the live session for token together with its stored encoding.
func (s *authService) resolve(ctx context.Context, token string) (*domain.Session, string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, "", domain.ErrSessionExpired
	}
	sess, raw, err := s.loadSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, "", domain.ErrSessionExpired
		}
		return nil, "", storageError("authenticate", err)
	}
	if sess.Expired(s.now(), s.timeout) {
		if err := s.expire(ctx, sess); err != nil {
			s.logger.Warn("Failed to drop expired session", zap.String("session_id", sess.ID), zap.Error(err))
		}
		return nil, "", domain.ErrSessionExpired
	}
	if err := s.refreshUser(ctx, sess); err != nil {
		return nil, "", err
	}
	return sess, raw, nil
}

// refreshUser replaces the session's user with the stored account so role and
// status changes apply to sessions that are already open. Sessions of deleted or
// inactive accounts are ended.
func (s *authService) refreshUser(ctx context.Context, sess *domain.Session) error {
	users, _, err := s.users.Load(ctx)
	if err != nil {
		return storageError("authenticate", err)
	}
	idx := repository.IndexOf(users, func(u domain.User) bool { return u.ID == sess.User.ID })
	if idx < 0 || users[idx].Status != domain.UserActive {
		if err := s.endSession(ctx, sess); err != nil {
			s.logger.Warn("Failed to drop revoked session", zap.String("session_id", sess.ID), zap.Error(err))
		}
		s.logger.Info("Session revoked", zap.String("session_id", sess.ID), zap.Int64("user_id", sess.User.ID))
		return domain.ErrSessionExpired
	}
	sess.User = users[idx].Public()
	return nil
}

func (s *authService) IsAuthenticated(ctx context.Context, token string) bool {
	_, err := s.Authenticate(ctx, token)
	return err == nil
}

func (s *authService) Touch(ctx context.Context, token string) (*domain.Session, error) {
	sess, raw, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	sess.Touch(s.now())
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, err, "encode session")
	}
	err = s.kv.CompareAndSwap(ctx, sessionKey(sess.ID), raw, string(data))
	if err != nil && !errors.Is(err, store.ErrConflict) {
		return nil, storageError("touch session", err)
	}
	// on conflict a concurrent request already recorded activity at least as recent
	return sess, nil
}

func (s *authService) HasPermission(session *domain.Session, name string) bool {
	if session == nil {
		return false
	}
	return domain.HasPermission(session.User.Role, name)
}

func (s *authService) Permissions(role domain.Role) map[string]bool {
	return role.Capabilities().Map()
}

func (s *authService) ExpireIdle(ctx context.Context) (int, error) {
	keys, err := s.kv.ScanKeys(ctx, sessionKeyPrefix+"*")
	if err != nil {
		return 0, storageError("scan sessions", err)
	}
	now := s.now()
	expired := 0
	for _, key := range keys {
		id := strings.TrimPrefix(key, sessionKeyPrefix)
		sess, _, err := s.loadSession(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrMiss) {
				continue
			}
			s.logger.Warn("Dropping unreadable session", zap.String("key", key), zap.Error(err))
			_ = s.kv.Delete(ctx, key)
			continue
		}
		if !sess.Expired(now, s.timeout) {
			continue
		}
		if err := s.expire(ctx, sess); err != nil {
			return expired, storageError("expire session", err)
		}
		expired++
	}
	return expired, nil
}

func (s *authService) OnSessionEnd(fn func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = append(s.onEnd, fn)
}

func (s *authService) expire(ctx context.Context, sess *domain.Session) error {
	if err := s.endSession(ctx, sess); err != nil {
		return err
	}
	s.logger.Info("Session expired",
		zap.String("session_id", sess.ID),
		zap.Int64("user_id", sess.User.ID),
		zap.Duration("idle", s.now().Sub(sess.LastActivity)),
	)
	notice := map[string]any{
		"sessionId": sess.ID,
		"userId":    sess.User.ID,
		"username":  sess.User.Username,
		"notice":    SessionExpiredNotice,
	}
	if err := s.events.Publish(ctx, events.TypeSessionExpired, notice); err != nil {
		s.logger.Warn("Failed to publish session expiry", zap.String("session_id", sess.ID), zap.Error(err))
	}
	return nil
}

func (s *authService) endSession(ctx context.Context, sess *domain.Session) error {
	if err := s.kv.Delete(ctx, sessionKey(sess.ID)); err != nil {
		return err
	}
	if cur, err := s.kv.Get(ctx, currentUserKey(sess.User.ID)); err == nil && cur == sess.ID {
		if err := s.kv.Delete(ctx, currentUserKey(sess.User.ID)); err != nil {
			return err
		}
	}
	s.sessionEnded(sess.ID)
	return nil
}

func (s *authService) sessionEnded(id string) {
	s.mu.RLock()
	hooks := append([]func(string){}, s.onEnd...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn(id)
	}
}

func (s *authService) loadSession(ctx context.Context, id string) (*domain.Session, string, error) {
	raw, err := s.kv.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, "", err
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, "", err
	}
	return &sess, raw, nil
}

func (s *authService) saveSession(ctx context.Context, sess *domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, sessionKey(sess.ID), string(data), 0)
}
