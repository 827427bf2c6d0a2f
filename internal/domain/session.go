package domain

import "time"

// Session authenticated identity with its idle clock.
type Session struct {
	ID           string    `json:"id"`
	User         User      `json:"user"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// Expired true once the session has been idle for timeout or longer.
func (s Session) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActivity) >= timeout
}

// Touch moves LastActivity forward to now; it never moves backwards.
func (s *Session) Touch(now time.Time) {
	if now.After(s.LastActivity) {
		s.LastActivity = now
	}
}

// Can capability check against the session user's role.
func (s Session) Can(c Capability) bool {
	return s.User.Role.Can(c)
}
