package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
	"github.com/clipperline/barbershop-api/pkg/auth"
	apperrors "github.com/clipperline/barbershop-api/pkg/errors"
	"github.com/clipperline/barbershop-api/pkg/security"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

type Service struct {
	users  repository.UserRepository
	hasher security.PasswordHasher
	jwt    auth.JWTService
	now    func() time.Time
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, jwt auth.JWTService) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
		now:    time.Now,
	}
}

// Register creates an account and issues a token. The first registered
// account becomes the shop admin.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperrors.Conflict("username is already taken", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if s.isLockedOut(user) {
		return nil, apperrors.Forbidden("account temporarily locked, try again later")
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.recordFailedAttempt(ctx, user)
		return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
	}

	now := s.now()
	user.LoginAttempts = 0
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.issueToken(user)
}

func (s *Service) isLockedOut(user *model.User) bool {
	if user.LoginAttempts < maxLoginAttempts || user.LastLoginAttempt == nil {
		return false
	}
	return s.now().Sub(*user.LastLoginAttempt) < lockoutDuration
}

func (s *Service) recordFailedAttempt(ctx context.Context, user *model.User) {
	now := s.now()
	if user.LastLoginAttempt != nil && now.Sub(*user.LastLoginAttempt) >= lockoutDuration {
		user.LoginAttempts = 0
	}
	user.LoginAttempts++
	user.LastLoginAttempt = &now
	// best effort, login already failed
	_ = s.users.Update(ctx, user)
}

func (s *Service) issueToken(user *model.User) (*model.TokenResponse, error) {
	token, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
