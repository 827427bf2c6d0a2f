package domain

import "time"

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

func (s UserStatus) Valid() bool { return s == UserActive || s == UserInactive }

// User account. PasswordHash is bcrypt and never leaves the service layer.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedDate  time.Time  `json:"createdDate"`
	UpdatedDate  *time.Time `json:"updatedDate,omitempty"`
	LastLogin    *time.Time `json:"lastLogin"`
}

// Public copy without credentials.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// UserStats counts per status and role.
type UserStats struct {
	Total             int `json:"total"`
	Active            int `json:"active"`
	Inactive          int `json:"inactive"`
	Admins            int `json:"admins"`
	ViolationOfficers int `json:"violationOfficers"`
	InquiryUsers      int `json:"inquiryUsers"`
}

func ComputeUserStats(users []User) UserStats {
	s := UserStats{Total: len(users)}
	for _, u := range users {
		if u.Status == UserActive {
			s.Active++
		} else {
			s.Inactive++
		}
		switch u.Role {
		case RoleAdmin:
			s.Admins++
		case RoleViolationEntry:
			s.ViolationOfficers++
		case RoleInquiry:
			s.InquiryUsers++
		}
	}
	return s
}
