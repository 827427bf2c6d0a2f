package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Ali5829511/wwwr/internal/auth"
	"github.com/Ali5829511/wwwr/internal/domain"
	"github.com/Ali5829511/wwwr/internal/repository"

	"go.uber.org/zap"
)

const minPasswordLength = 6

// UserService account management.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, actor Actor, id int64, req UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, actor Actor, id int64) error
	Stats(ctx context.Context) (*domain.UserStats, error)

	// EnsureDefaultUsers seeds the bootstrap accounts when the users collection was never written.
	EnsureDefaultUsers(ctx context.Context) (bool, error)
}

type userService struct {
	mu     sync.Mutex
	users  *repository.Collection[domain.User]
	hasher *auth.Hasher
	logger *zap.Logger
	now    func() time.Time
}

func NewUserService(users *repository.Collection[domain.User], hasher *auth.Hasher, logger *zap.Logger) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}
}

// CreateUserRequest new account; Status defaults to active.
type CreateUserRequest struct {
	Username string            `json:"username"`
	Password string            `json:"password"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Role     domain.Role       `json:"role"`
	Status   domain.UserStatus `json:"status"`
}

// UpdateUserRequest nil fields are left unchanged; a non-nil Password is re-hashed.
type UpdateUserRequest struct {
	Username *string            `json:"username"`
	Password *string            `json:"password"`
	Name     *string            `json:"name"`
	Email    *string            `json:"email"`
	Role     *domain.Role       `json:"role"`
	Status   *domain.UserStatus `json:"status"`
}

type defaultAccount struct {
	username, password, name, email string
	role                            domain.Role
}

var defaultAccounts = []defaultAccount{
	{"admin", "admin123", "مدير النظام", "admin@housing.edu.sa", domain.RoleAdmin},
	{"violations_officer", "violations123", "مسؤول المخالفات", "violations@housing.edu.sa", domain.RoleViolationEntry},
	{"inquiry_user", "inquiry123", "مستخدم الاستعلام", "inquiry@housing.edu.sa", domain.RoleInquiry},
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, _, err := s.users.Load(ctx)
	if err != nil {
		return nil, storageError("list users", err)
	}
	out := make([]domain.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	users, _, err := s.users.Load(ctx)
	if err != nil {
		return nil, storageError("get user", err)
	}
	idx := repository.IndexOf(users, func(u domain.User) bool { return u.ID == id })
	if idx < 0 {
		return nil, domain.NotFoundError("user %d not found", id)
	}
	u := users[idx].Public()
	return &u, nil
}

func (s *userService) CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.ValidationError("username is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, domain.ValidationError("password must be at least %d characters", minPasswordLength)
	}
	if !req.Role.Valid() {
		return nil, domain.ValidationError("invalid role %q", req.Role)
	}
	status := req.Status
	if status == "" {
		status = domain.UserActive
	}
	if !status.Valid() {
		return nil, domain.ValidationError("invalid status %q", req.Status)
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, err, "hash password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, rev, err := s.users.Load(ctx)
	if err != nil {
		return nil, storageError("create user", err)
	}
	if usernameTaken(users, username, 0) {
		return nil, domain.ValidationError("username %q already exists", username)
	}

	u := domain.User{
		ID:           repository.NextID(users, func(u domain.User) int64 { return u.ID }),
		Username:     username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Role:         req.Role,
		Status:       status,
		CreatedDate:  s.now(),
	}
	users = append(users, u)
	if _, err := s.users.Save(ctx, users, rev); err != nil {
		return nil, storageError("create user", err)
	}

	s.logger.Info("User created",
		zap.Int64("user_id", u.ID),
		zap.String("username", u.Username),
		zap.String("role", string(u.Role)),
		zap.String("by", actor.Username),
	)
	out := u.Public()
	return &out, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, id int64, req UpdateUserRequest) (*domain.User, error) {
	if req.Role != nil && !req.Role.Valid() {
		return nil, domain.ValidationError("invalid role %q", *req.Role)
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, domain.ValidationError("invalid status %q", *req.Status)
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		return nil, domain.ValidationError("username is required")
	}
	var hash string
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return nil, domain.ValidationError("password must be at least %d characters", minPasswordLength)
		}
		h, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, domain.Wrap(domain.KindInternal, err, "hash password")
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, rev, err := s.users.Load(ctx)
	if err != nil {
		return nil, storageError("update user", err)
	}
	idx := repository.IndexOf(users, func(u domain.User) bool { return u.ID == id })
	if idx < 0 {
		return nil, domain.NotFoundError("user %d not found", id)
	}
	if req.Username != nil && usernameTaken(users, strings.TrimSpace(*req.Username), id) {
		return nil, domain.ValidationError("username %q already exists", strings.TrimSpace(*req.Username))
	}

	u := users[idx]
	setString(&u.Username, req.Username)
	setString(&u.Name, req.Name)
	setString(&u.Email, req.Email)
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Status != nil {
		u.Status = *req.Status
	}
	if hash != "" {
		u.PasswordHash = hash
	}
	u.UpdatedDate = timePtr(s.now())
	users[idx] = u

	if _, err := s.users.Save(ctx, users, rev); err != nil {
		return nil, storageError("update user", err)
	}
	s.logger.Info("User updated", zap.Int64("user_id", id), zap.String("by", actor.Username))
	out := u.Public()
	return &out, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor Actor, id int64) error {
	if actor.UserID != 0 && actor.UserID == id {
		return domain.ValidationError("the signed-in account cannot delete itself")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, rev, err := s.users.Load(ctx)
	if err != nil {
		return storageError("delete user", err)
	}
	kept := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return domain.NotFoundError("user %d not found", id)
	}
	if _, err := s.users.Save(ctx, kept, rev); err != nil {
		return storageError("delete user", err)
	}
	s.logger.Info("User deleted", zap.Int64("user_id", id), zap.String("by", actor.Username))
	return nil
}

func (s *userService) Stats(ctx context.Context) (*domain.UserStats, error) {
	users, _, err := s.users.Load(ctx)
	if err != nil {
		return nil, storageError("user stats", err)
	}
	stats := domain.ComputeUserStats(users)
	return &stats, nil
}

func (s *userService) EnsureDefaultUsers(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.users.Exists(ctx)
	if err != nil {
		return false, storageError("seed users", err)
	}
	if exists {
		return false, nil
	}
	now := s.now()
	users := make([]domain.User, 0, len(defaultAccounts))
	for i, a := range defaultAccounts {
		hash, err := s.hasher.Hash(a.password)
		if err != nil {
			return false, domain.Wrap(domain.KindInternal, err, "hash password")
		}
		users = append(users, domain.User{
			ID:           int64(i + 1),
			Username:     a.username,
			PasswordHash: hash,
			Name:         a.name,
			Email:        a.email,
			Role:         a.role,
			Status:       domain.UserActive,
			CreatedDate:  now,
		})
	}
	_, rev, err := s.users.Load(ctx)
	if err != nil {
		return false, storageError("seed users", err)
	}
	if _, err := s.users.Save(ctx, users, rev); err != nil {
		return false, storageError("seed users", err)
	}
	s.logger.Warn("Seeded default user accounts, change their passwords", zap.Int("count", len(users)))
	return true, nil
}

func usernameTaken(users []domain.User, username string, exceptID int64) bool {
	for _, u := range users {
		if u.ID != exceptID && strings.EqualFold(u.Username, username) {
			return true
		}
	}
	return false
}
