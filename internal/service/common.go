package service

import (
	"errors"
	"strings"
	"time"

	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/store"
)

// Actor the signed-in user performing a write; zero for system jobs.
type Actor struct {
	UserID   int64
	Username string
}

// ActorFromSession nil session yields the system actor.
func ActorFromSession(s *domain.Session) Actor {
	if s == nil {
		return Actor{}
	}
	return Actor{UserID: s.User.ID, Username: s.User.Username}
}

func (a Actor) ref() *int64 {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// storageError converts store failures into domain errors.
func storageError(op string, err error) error {
	if errors.Is(err, store.ErrConflict) {
		return domain.Wrap(domain.KindConflict, err, "the data was changed in another session, reload and try again")
	}
	return domain.Wrap(domain.KindStorage, err, op+": storage unavailable")
}

func timePtr(t time.Time) *time.Time { return &t }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
