package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/apperr"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Both token classes carry only the user id; they are told apart by the
// secret that signs them.
type tokenClaims struct {
	jwt.RegisteredClaims
}

func signToken(userID string, ttl time.Duration, secret []byte) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func parseToken(raw string, secret []byte) (string, error) {
	var claims tokenClaims
	t, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

// ParseAccessToken resolves the user id from an access token. An expired
// token is a distinct failure so clients know to refresh instead of
// re-login.
func ParseAccessToken(raw string, secret []byte) (string, error) {
	sub, err := parseToken(raw, secret)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", apperr.New(apperr.ExpiredToken, "access token expired")
	}
	if err != nil {
		return "", apperr.Wrap(apperr.Unauthorized, "invalid access token", err)
	}
	return sub, nil
}
