package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"scaffold-backend/internal/auth"
	"scaffold-backend/internal/cache"
	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserSuspended      = errors.New("account is suspended")
)

type UserService struct {
	Repo   UserStore
	Tokens SessionIssuer
	log    *logrus.Entry
}

func NewUserService(repo UserStore, tokens SessionIssuer) *UserService {
	return &UserService{Repo: repo, Tokens: tokens, log: logging.For("auth")}
}

// Login checks staff credentials and issues a session token. Verified
// credentials are cached in Redis to skip bcrypt on repeat logins.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user *models.User
	if id, ok := cache.GetCachedAuth(ctx, email, req.Password); ok {
		if u, err := s.Repo.Get(ctx, id); err == nil {
			user = u
		}
	}
	if user == nil {
		u, err := s.Repo.GetByEmail(ctx, email)
		if errors.Is(err, rental.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		if err != nil {
			return nil, err
		}
		if !auth.VerifyPassword(u.PasswordHash, req.Password) {
			s.log.WithField("email", email).Warn("Failed login")
			return nil, ErrInvalidCredentials
		}
		user = u
		cache.CacheAuth(ctx, email, req.Password, user.ID)
	}
	if !user.IsActive {
		return nil, ErrUserSuspended
	}

	token, err := s.Tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

// SetActive suspends or reactivates a user
func (s *UserService) SetActive(ctx context.Context, id int, active bool) error {
	return s.Repo.SetActive(ctx, id, active)
}

// EnsureAdmin creates the bootstrap admin or resets its password
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	req := &models.CreateUserRequest{Name: "Administrator", Email: email, Password: password, Role: models.RoleAdmin}
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.Repo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
