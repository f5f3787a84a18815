package auth

import (
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	autherrors "github.com/regtech-horizon/regtech-backend/internal/auth/errors"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Token TTLs come from env in minutes; the refresh cookie lifetime is
// derived from refreshTTL so the two cannot drift.
func accessTTL() time.Duration {
	return envMinutes("ACCESS_TOKEN_EXPIRE_MINUTES", 30*time.Minute)
}

func refreshTTL() time.Duration {
	return envMinutes("REFRESH_TOKEN_EXPIRE_MINUTES", 30*24*time.Hour)
}

func envMinutes(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return fallback
}

func generateToken(userID, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    tokenType,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// CreateAccessToken issues a short-lived token for API access.
func CreateAccessToken(userID string) (string, error) {
	return generateToken(userID, TokenTypeAccess, accessTTL())
}

// CreateRefreshToken issues a long-lived token accepted only by the refresh
// endpoint.
func CreateRefreshToken(userID string) (string, error) {
	return generateToken(userID, TokenTypeRefresh, refreshTTL())
}

// VerifyToken checks signature, expiry and token type, returning the subject
// user id.
func VerifyToken(tokenString, wantType string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", autherrors.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return "", autherrors.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", autherrors.ErrInvalidToken
	}
	return userID, nil
}
