package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/identity"
)

// RegisterInput contains the input for opening a shop account
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	ShopName string
	Phone    string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the token pair and the signed-in user.
// Register returns the same shape.
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains the user fields exposed to clients
type UserInfo struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Email       string
	Name        string
	Phone       string
	ShopName    string
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID         uuid.UUID
	TokenJTI       string    // access token id to revoke
	TokenExpiresAt time.Time // access token expiry, bounds the revocation
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		ShopName:    u.ShopName,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
