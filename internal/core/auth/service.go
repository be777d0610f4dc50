package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRefreshRevoked     = errors.New("refresh token revoked or expired")
)

type Service struct {
	repo       UserStore
	jwtService *JWTService
}

// NewService creates a new auth service
func NewService(repo UserStore, jwtSecret string) *Service {
	return &Service{
		repo:       repo,
		jwtService: NewJWTService(jwtSecret),
	}
}

// Login authenticates user with email and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID.String(), time.Now()); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to update last login")
	}

	log.Info().Str("email", user.Email).Msg("User logged in")
	return s.generateAuthResponse(ctx, user)
}

// RefreshToken rotates the refresh token and issues a new access token
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrRefreshRevoked
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, ErrRefreshRevoked
	}
	if user.RefreshTokenExpiresAt != nil && user.RefreshTokenExpiresAt.Before(time.Now()) {
		return nil, ErrRefreshRevoked
	}

	return s.generateAuthResponse(ctx, user)
}

// Logout revokes the user's refresh token
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.repo.UpdateRefreshToken(ctx, userID, "", nil); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	log.Info().Str("user_id", userID).Msg("User logged out")
	return nil
}

// ValidateToken validates an access token
func (s *Service) ValidateToken(token string) (*TokenClaims, error) {
	return s.jwtService.ValidateAccessToken(token)
}

// Me returns the current state of an authenticated user
func (s *Service) Me(ctx context.Context, userID string) (*UserInfo, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newUserInfo(user), nil
}

// SeedAdmin creates an admin account, or resets the password and role of an existing one
func (s *Service) SeedAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || len(password) < 8 {
		return errors.New("seed admin requires an email and a password of at least 8 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.repo.UpdatePassword(ctx, existing.ID.String(), hash, RoleAdmin); err != nil {
			return fmt.Errorf("failed to update admin: %w", err)
		}
		log.Info().Str("email", email).Msg("Admin password reset")
		return nil
	case !errors.Is(err, ErrUserNotFound):
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	user := &DashboardUser{
		Email:        email,
		Name:         strings.SplitN(email, "@", 2)[0],
		Role:         RoleAdmin,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info().Str("email", email).Msg("Admin created")
	return nil
}

func (s *Service) generateAuthResponse(ctx context.Context, user *DashboardUser) (*AuthResponse, error) {
	accessToken, expiresIn, err := s.jwtService.GenerateAccessToken(&TokenClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := s.jwtService.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRefreshToken(ctx, user.ID.String(), refreshToken, &expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User:         newUserInfo(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
