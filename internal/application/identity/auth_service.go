package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/identity"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewUnauthorizedError("UNAUTHORIZED", "Invalid email or password")

// AuthService handles registration and authentication of shop owners
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register opens a new shop account and signs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, shared.WrapPersistence("failed to check email", err)
	}
	if exists {
		return nil, shared.NewConflictError("EMAIL_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.Name, input.ShopName)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := user.SetPhone(input.Phone); err != nil {
			return nil, err
		}
	}
	user.RecordLogin(s.now())

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Shop registered",
		zap.String("user_id", user.ID.String()),
		zap.String("shop_name", user.ShopName))
	return result, nil
}

// Login authenticates a user and returns tokens.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Login for unknown email", zap.String("ip", input.IP))
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, shared.WrapPersistence("failed to load user", err)
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt",
			zap.String("user_id", user.ID.String()),
			zap.String("ip", input.IP))
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.NewUnauthorizedError("ACCOUNT_DISABLED", "Account has been deactivated")
	}

	user.RecordLogin(s.now())
	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return result, nil
}

// RefreshToken rotates the token pair. Only the most recently issued
// refresh token is accepted.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewUnauthorizedError("TOKEN_EXPIRED", "Refresh token has expired")
		}
		return nil, shared.NewUnauthorizedError("TOKEN_INVALID", "Invalid refresh token")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewUnauthorizedError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewUnauthorizedError("TOKEN_INVALID", "Invalid refresh token")
	}
	if err != nil {
		return nil, shared.WrapPersistence("failed to load user", err)
	}
	if !user.RefreshTokenMatches(input.RefreshToken, s.now()) {
		s.logger.Warn("Refresh token does not match stored token", zap.String("user_id", userID.String()))
		return nil, shared.NewUnauthorizedError("TOKEN_INVALID", "Invalid refresh token")
	}
	if !user.IsActive {
		return nil, shared.NewUnauthorizedError("ACCOUNT_DISABLED", "Account has been deactivated")
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))
	return &RefreshTokenResult{
		AccessToken:           result.AccessToken,
		RefreshToken:          result.RefreshToken,
		AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
		TokenType:             result.TokenType,
	}, nil
}

// Logout revokes the stored refresh token and blacklists the access token
// until it expires
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	user, err := s.findUser(ctx, input.UserID)
	if err != nil {
		return err
	}

	user.RevokeRefreshToken()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return shared.WrapPersistence("failed to revoke refresh token", err)
	}

	if input.TokenJTI != "" && s.blacklist != nil {
		if ttl := input.TokenExpiresAt.Sub(s.now()); ttl > 0 {
			if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
				s.logger.Error("Failed to blacklist access token", zap.Error(err))
				return shared.NewPersistenceError("failed to revoke access token", err)
			}
		}
	}

	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// GetCurrentUser retrieves the current user's information
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

func (s *AuthService) findUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewNotFoundError("USER_NOT_FOUND", "User not found")
	}
	if err != nil {
		return nil, shared.WrapPersistence("failed to load user", err)
	}
	return user, nil
}

// issueTokens signs a new pair, stores the refresh token digest and saves the user
func (s *AuthService) issueTokens(ctx context.Context, user *identity.User) (*LoginResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Email:    user.Email,
	})
	if err != nil {
		return nil, shared.NewPersistenceError("failed to sign tokens", err)
	}

	user.StoreRefreshToken(pair.RefreshToken, pair.RefreshTokenExpiresAt)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, shared.WrapPersistence("failed to save user", err)
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  toUserInfo(user),
	}, nil
}
