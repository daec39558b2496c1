package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"anoa.com/mediannsp/internal/modules/auth/dto"
	"anoa.com/mediannsp/internal/modules/user/repository"
	"anoa.com/mediannsp/pkg/apperror"
	"anoa.com/mediannsp/pkg/ratelimiter"
)

var errInvalidCredentials = apperror.Unauthorized("Invalid credentials")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	users    repository.UserRepository
	tokens   *TokenManager
	throttle *ratelimiter.LoginThrottle
	logger   *slog.Logger
}

// NewAuthService builds the login flow. throttle may be nil.
func NewAuthService(users repository.UserRepository, tokens *TokenManager, throttle *ratelimiter.LoginThrottle, logger *slog.Logger) AuthService {
	return &authService{users: users, tokens: tokens, throttle: throttle, logger: logger}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	allowed, wait, err := s.throttle.Allow(ctx, req.Username)
	if err != nil {
		// Fail open when Redis is unreachable.
		s.logger.WarnContext(ctx, "login throttle unavailable", slog.Any("error", err))
	} else if !allowed {
		minutes := int(math.Ceil(wait.Minutes()))
		if minutes < 1 {
			minutes = 1
		}
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("Too many failed login attempts. Try again in %d minute(s)", minutes),
			apperror.ErrRateLimitExceeded)
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !repository.ComparePassword(req.Password, user.PasswordHash) {
		if err := s.throttle.RecordFailure(ctx, req.Username); err != nil {
			s.logger.WarnContext(ctx, "failed to record login failure", slog.Any("error", err))
		}
		return nil, errInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, req.Username); err != nil {
		s.logger.WarnContext(ctx, "failed to reset login attempts", slog.Any("error", err))
	}

	token, _, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Uint64("user_id", uint64(user.ID)))
	return &dto.LoginResponse{
		Token: token,
		User: dto.LoginUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.RoleName,
		},
	}, nil
}
