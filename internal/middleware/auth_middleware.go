package middleware

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	autherrors "github.com/regtech-horizon/regtech-backend/internal/auth/errors"
	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/shared/contextutil"
	"github.com/regtech-horizon/regtech-backend/internal/shared/response"
)

// UserLoader resolves an authenticated user id into the full account row.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// AuthRequired accepts a bearer access token, falling back to the
// access_token cookie for browser clients. Refresh tokens are never accepted
// here regardless of their validity.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.AbortFailure(c, autherrors.ErrMissingToken)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.AbortFailure(c, errObj)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.AbortFailure(c, autherrors.ErrInvalidToken)
			return
		}

		if tokenType, _ := claims["type"].(string); tokenType != "access" {
			response.AbortFailure(c, autherrors.ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.AbortFailure(c, autherrors.ErrInvalidToken)
			return
		}

		c.Set("user_id", userID)
		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CurrentUser loads the account behind the verified token. A token whose
// user has since been deleted is treated as unauthenticated, not missing.
func CurrentUser(loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			response.AbortFailure(c, autherrors.ErrMissingToken)
			return
		}

		u, err := loader.FindByID(c.Request.Context(), userID)
		if err != nil {
			response.AbortFailure(c, autherrors.ErrUserGone)
			return
		}

		c.Set("current_user", u)
		c.Set("role", u.Role)
		c.Next()
	}
}

// RequireSuperadmin guards admin-only routes. It assumes CurrentUser ran
// earlier in the chain.
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := MustCurrentUser(c)
		if u == nil || !u.IsSuperadmin {
			response.AbortFailure(c, autherrors.ErrSuperadminOnly)
			return
		}
		c.Next()
	}
}

// MustCurrentUser returns the loaded account or nil when the chain did not
// include CurrentUser.
func MustCurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get("current_user")
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
