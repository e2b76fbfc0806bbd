package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const unlockScope = "wedding_unlock"

var (
	ErrInvalidToken = errors.New("invalid unlock token")
	ErrTokenSecret  = errors.New("JWT secret not configured")
)

// UnlockClaims proves a visitor entered the password of one wedding page.
type UnlockClaims struct {
	WeddingID string `json:"wedding_id"`
	Slug      string `json:"slug"`
	Scope     string `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateUnlockToken signs a token for the given wedding, valid for ttl.
func GenerateUnlockToken(secret, weddingID, slug string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrTokenSecret
	}
	now := time.Now()
	claims := UnlockClaims{
		WeddingID: weddingID,
		Slug:      slug,
		Scope:     unlockScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   weddingID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyUnlockToken reports whether tokenString unlocks the given wedding.
func VerifyUnlockToken(secret, tokenString, weddingID string) (bool, error) {
	if secret == "" {
		return false, ErrTokenSecret
	}
	if tokenString == "" {
		return false, nil
	}

	claims := &UnlockClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false, ErrInvalidToken
	}
	if claims.Scope != unlockScope || claims.WeddingID != weddingID {
		return false, ErrInvalidToken
	}
	return true, nil
}
