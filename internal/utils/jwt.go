package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenLifetime bounds both the JWT expiry and the revocation-list TTL.
const TokenLifetime = 24 * time.Hour

type Claims struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	DentistID string `json:"dentistId,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a signed token for a user. The JTI lets the logout
// blacklist revoke this one token without touching the user's others.
func GenerateJWT(secret []byte, userID, role, dentistID string) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("JWT secret is not configured")
	}
	claims := &Claims{
		UserID:    userID,
		Role:      role,
		DentistID: dentistID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateJWT validates a given token string.
func ValidateJWT(secret []byte, tokenStr string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, errors.New("JWT secret is not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
