package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrUserNotFound is returned when no active user matches
var ErrUserNotFound = errors.New("user not found")

// UserStore persists dashboard users
type UserStore interface {
	CreateUser(ctx context.Context, user *DashboardUser) error
	GetUserByEmail(ctx context.Context, email string) (*DashboardUser, error)
	GetUserByID(ctx context.Context, id string) (*DashboardUser, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiresAt *time.Time) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	UpdatePassword(ctx context.Context, userID, passwordHash, role string) error
}

type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(ctx context.Context, user *DashboardUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*DashboardUser, error) {
	return r.first(ctx, "email = ? AND is_active = ?", email, true)
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*DashboardUser, error) {
	return r.first(ctx, "id = ? AND is_active = ?", id, true)
}

// UpdateRefreshToken stores the current refresh token; an empty token revokes it
func (r *Repository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&DashboardUser{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token":            refreshToken,
			"refresh_token_expires_at": expiresAt,
		}).Error
}

func (r *Repository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&DashboardUser{}).
		Where("id = ?", userID).
		Update("last_login_at", at).Error
}

func (r *Repository) UpdatePassword(ctx context.Context, userID, passwordHash, role string) error {
	return r.db.WithContext(ctx).Model(&DashboardUser{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"role":          role,
			"is_active":     true,
		}).Error
}

func (r *Repository) first(ctx context.Context, query string, args ...interface{}) (*DashboardUser, error) {
	var user DashboardUser
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
