// Package auth mints and verifies the HS256 tokens handed to clients.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims carries the standard claims plus the owning user and the token
// type, so a refresh token is never accepted where an access token is
// expected.
type Claims struct {
	jwt.RegisteredClaims
	UserID string    `json:"uid"`
	Type   TokenType `json:"typ"`
}

// GenerateToken signs a token of the given type for userID. The returned
// claims hold the generated id (jti) and expiry.
func GenerateToken(userID string, typ TokenType, secretKey []byte, validityDuration time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Type:   typ,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", nil, err
	}

	return tokenString, claims, nil
}

// ParseToken verifies tokenString and checks its type. Expired tokens yield
// common.ErrTokenExpired; anything else that fails yields
// common.ErrInvalidToken.
func ParseToken(tokenString string, want TokenType, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Type != want || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetUserIDFromToken returns the user of a valid access token.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, AccessToken, secretKey)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
