package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/hash"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/store"
)

// errInvalidCredentials is shared by the unknown-email and wrong-password
// paths so a caller cannot tell which check failed.
var errInvalidCredentials = apperr.New(apperr.Unauthorized, "invalid email or password")

type AuthService struct {
	Users         store.UserStore
	Cache         cache.Cache
	AccessSecret  []byte
	RefreshSecret []byte
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func refreshKey(userID string) string { return "refresh_token:" + userID }

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*models.User, *TokenPair, error) {
	if err := models.ValidateSignup(name, email, password); err != nil {
		return nil, nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        models.NormalizeEmail(email),
		PasswordHash: pwHash,
		Role:         models.RoleCustomer,
	}
	if err := s.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, nil, apperr.New(apperr.Conflict, "user already exists")
		}
		return nil, nil, apperr.Wrap(apperr.External, "failed to create user", err)
	}

	pair, err := s.issueTokens(ctx, user.ID.Hex())
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	if err := models.ValidateLogin(email, password); err != nil {
		return nil, nil, err
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, errInvalidCredentials
	}
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.External, "failed to look up user", err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, nil, errInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user.ID.Hex())
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// issueTokens mints both tokens and stores the refresh token server-side,
// overwriting any prior session for the user.
func (s *AuthService) issueTokens(ctx context.Context, userID string) (*TokenPair, error) {
	access, accessExp, err := signToken(userID, AccessTokenTTL, s.AccessSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to sign access token", err)
	}
	refresh, refreshExp, err := signToken(userID, RefreshTokenTTL, s.RefreshSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to sign refresh token", err)
	}
	if err := s.Cache.Set(ctx, refreshKey(userID), refresh, RefreshTokenTTL); err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to store refresh token", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Refresh mints a new access token against a stored refresh token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	if refreshToken == "" {
		return "", time.Time{}, apperr.New(apperr.Unauthorized, "no refresh token provided")
	}

	userID, err := parseToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return "", time.Time{}, apperr.Wrap(apperr.InvalidToken, "invalid refresh token", err)
	}

	stored, err := s.Cache.Get(ctx, refreshKey(userID))
	if errors.Is(err, cache.ErrMiss) {
		return "", time.Time{}, apperr.New(apperr.InvalidToken, "refresh session not found")
	}
	if err != nil {
		return "", time.Time{}, apperr.Wrap(apperr.External, "failed to load refresh session", err)
	}
	if stored != refreshToken {
		return "", time.Time{}, apperr.New(apperr.InvalidToken, "refresh token mismatch")
	}

	access, exp, err := signToken(userID, AccessTokenTTL, s.AccessSecret)
	if err != nil {
		return "", time.Time{}, apperr.Wrap(apperr.Internal, "failed to sign access token", err)
	}
	return access, exp, nil
}

// Logout revokes the server-side refresh session. Best effort: the caller
// clears its cookies regardless, so failures are logged, not returned.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	userID, err := parseToken(refreshToken, s.RefreshSecret)
	if err != nil {
		logging.FromContext(ctx).Warn("logout with undecodable refresh token", "error", err)
		return
	}
	if err := s.Cache.Del(ctx, refreshKey(userID)); err != nil {
		logging.FromContext(ctx).Error("failed to delete refresh session", "user_id", userID, "error", err)
	}
}

// ResolveAccessToken maps a raw access token to its user. Used by the
// route guard.
func (s *AuthService) ResolveAccessToken(ctx context.Context, raw string) (*models.User, error) {
	userID, err := ParseAccessToken(raw, s.AccessSecret)
	if err != nil {
		return nil, err
	}
	return s.userByHexID(ctx, userID)
}

func (s *AuthService) userByHexID(ctx context.Context, hexID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthorized, "invalid token subject", err)
	}
	user, err := s.Users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.Unauthorized, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to look up user", err)
	}
	return user, nil
}
