package auth

import (
	"time"

	"github.com/google/uuid"
)

// Roles a dashboard user can hold
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// DashboardUser is an account allowed to sign in to the dashboard
type DashboardUser struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email string    `gorm:"type:text;unique;not null" json:"email"`
	Name  string    `gorm:"type:text" json:"name"`
	Role  string    `gorm:"type:text;not null;default:'viewer'" json:"role"`

	PasswordHash string `gorm:"type:text;not null" json:"-"`
	IsActive     bool   `gorm:"type:boolean;default:true" json:"is_active"`

	// Only the latest refresh token is honoured
	RefreshToken          string     `gorm:"type:text" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DashboardUser) TableName() string {
	return "dashboard_users"
}

// LoginRequest represents login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned by login and refresh
type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"` // seconds
	User         *UserInfo `json:"user"`
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// TokenClaims are the claims carried by an access token
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func newUserInfo(u *DashboardUser) *UserInfo {
	return &UserInfo{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
