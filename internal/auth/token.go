// Package auth issues and verifies the HMAC-signed API tokens that gate
// generation when a secret is configured.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "mathanim-api"

var (
	ErrNoSecret    = errors.New("jwt secret not configured")
	ErrNegativeTTL = errors.New("token ttl must not be negative")
)

// Claims identifies the API client a token was issued to
type Claims struct {
	ClientID string `json:"clientId"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for clientID. A zero ttl never expires.
func IssueToken(secret, clientID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	if ttl < 0 {
		return "", ErrNegativeTTL
	}

	now := time.Now()
	claims := Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  clientID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken validates a token using HMAC signing
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ClientID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
