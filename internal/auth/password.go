package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Hasher bcrypt password hashing at a fixed cost.
type Hasher struct {
	cost int

	absentOnce sync.Once
	absentHash []byte
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash; malformed hashes never match.
func (h *Hasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyAbsent does the bcrypt work of Verify for an account that does not exist,
// so unknown usernames take as long as wrong passwords. It always reports false.
func (h *Hasher) VerifyAbsent(password string) bool {
	h.absentOnce.Do(func() {
		h.absentHash, _ = bcrypt.GenerateFromPassword([]byte("no account"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.absentHash, []byte(password))
	return false
}
