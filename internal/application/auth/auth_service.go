// Package auth implements login, token refresh and password management
// for dealer users.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wheeltrade/backend/internal/domain/dealer"
	"github.com/wheeltrade/backend/internal/domain/identity"
	"github.com/wheeltrade/backend/internal/domain/shared"
	infraauth "github.com/wheeltrade/backend/internal/infrastructure/auth"
)

const (
	maxLoginAttempts = 5
	lockDuration     = 30 * time.Minute
)

// ErrInvalidCredentials is returned for a bad username/password pair.
// Deliberately identical for unknown users and wrong passwords.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo       identity.UserRepository
	dealerRepo     dealer.DealerRepository
	jwtService     *infraauth.JWTService
	blacklist      infraauth.TokenBlacklist
	eventPublisher shared.EventPublisher
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	dealerRepo dealer.DealerRepository,
	jwtService *infraauth.JWTService,
	blacklist infraauth.TokenBlacklist,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		dealerRepo: dealerRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked due to failed login attempts")
		}
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is not active")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(maxLoginAttempts, lockDuration)
		if saveErr := s.userRepo.Save(ctx, user); saveErr != nil {
			return nil, saveErr
		}
		if locked {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked due to failed login attempts")
		}
		return nil, ErrInvalidCredentials
	}

	// A suspended dealership can still log in to read history, so only
	// reject when the dealer record itself is missing.
	if _, err := s.dealerRepo.FindByID(ctx, user.DealerID); err != nil {
		return nil, err
	}

	user.RecordLoginSuccess(req.ClientIP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	pair, err := s.jwtService.GenerateTokenPair(infraauth.GenerateTokenInput{
		DealerID: user.DealerID,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:        pair.AccessToken,
		RefreshToken:       pair.RefreshToken,
		TokenType:          pair.TokenType,
		ExpiresAt:          pair.AccessTokenExpiresAt,
		MustChangePassword: user.MustChangePassword,
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
// The user's current role is re-read so role changes take effect here.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	if err := s.ensureNotBlacklisted(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is not active")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Username, string(user.Role))
	if err != nil {
		if err == infraauth.ErrMaxRefreshExceeded {
			return nil, shared.NewDomainError("REFRESH_LIMIT", "Refresh limit reached, please log in again")
		}
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	return &TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresAt:    pair.AccessTokenExpiresAt,
	}, nil
}

// Logout blacklists the presented access token for its remaining TTL
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		// Already invalid; nothing to revoke
		return nil
	}

	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, ttl)
}

// ChangePassword changes the caller's password and revokes existing sessions
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.publishEvents(ctx, user)

	// Force re-login everywhere with the new password
	return s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.jwtService.GetRefreshTokenExpiration())
}

// GetCurrentUser returns the authenticated user's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// CheckAccessToken validates an access token against signature, expiry
// and the blacklist. Used by the HTTP auth middleware.
func (s *AuthService) CheckAccessToken(ctx context.Context, accessToken string) (*infraauth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotBlacklisted(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) ensureNotBlacklisted(ctx context.Context, claims *infraauth.Claims) error {
	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if blacklisted {
		return infraauth.ErrTokenBlacklisted
	}

	issuedAt := claims.GetIssuedAtTime()
	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, issuedAt)
	if err != nil {
		return err
	}
	if invalidated {
		return infraauth.ErrTokenBlacklisted
	}
	return nil
}

func (s *AuthService) publishEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range user.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	user.ClearDomainEvents()
}
