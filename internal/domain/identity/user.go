package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
var bcryptCost = 12

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt limit
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a shop owner. Each user is its own tenant: TenantID == ID.
type User struct {
	shared.TenantAggregateRoot
	Email                 string
	Name                  string
	Phone                 string
	ShopName              string
	PasswordHash          string
	IsActive              bool
	IsEmailVerified       bool
	RefreshTokenHash      string
	RefreshTokenExpiresAt *time.Time
	LastLoginAt           *time.Time
}

// NewUser registers a new shop owner
func NewUser(email, password, name, shopName string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "Name cannot be empty")
	}
	if strings.TrimSpace(shopName) == "" {
		return nil, shared.NewValidationError("INVALID_SHOP_NAME", "Shop name cannot be empty")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	root := shared.NewTenantAggregateRootWithCreator(id, id)
	root.ID = id

	return &User{
		TenantAggregateRoot: root,
		Email:               email,
		Name:                strings.TrimSpace(name),
		ShopName:            strings.TrimSpace(shopName),
		PasswordHash:        hash,
		IsActive:            true,
	}, nil
}

// SetPhone sets the contact phone
func (u *User) SetPhone(phone string) error {
	if len(phone) > 20 {
		return shared.NewValidationError("INVALID_PHONE", "Phone number cannot exceed 20 characters")
	}
	u.Phone = strings.TrimSpace(phone)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// StoreRefreshToken keeps a digest of the current refresh token
func (u *User) StoreRefreshToken(token string, expiresAt time.Time) {
	u.RefreshTokenHash = digestToken(token)
	u.RefreshTokenExpiresAt = &expiresAt
	u.UpdatedAt = time.Now().UTC()
}

// RefreshTokenMatches reports whether token is the current, unexpired refresh token
func (u *User) RefreshTokenMatches(token string, now time.Time) bool {
	if u.RefreshTokenHash == "" || u.RefreshTokenExpiresAt == nil {
		return false
	}
	if !now.Before(*u.RefreshTokenExpiresAt) {
		return false
	}
	return u.RefreshTokenHash == digestToken(token)
}

// RevokeRefreshToken clears the stored refresh token
func (u *User) RevokeRefreshToken() {
	u.RefreshTokenHash = ""
	u.RefreshTokenExpiresAt = nil
	u.UpdatedAt = time.Now().UTC()
}

// RecordLogin updates the last login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = time.Now().UTC()
}

// Deactivate blocks further logins
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 255 {
		return shared.NewValidationError("INVALID_EMAIL", "Email cannot exceed 255 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return shared.NewValidationError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return shared.NewValidationError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewPersistenceError("failed to hash password", err)
	}
	return string(hash), nil
}

func digestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
