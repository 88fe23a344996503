// Package middleware implements a JWT auth gate that loads accounts
// through an injected store interface instead of a concrete gorm model,
// so the planning API does not hard-wire a specific backend.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apimodels "github.com/oleamind/cropplanner/internal/api/models"
)

// AccountLoader loads an account by id, decoupling the middleware from any
// particular store implementation.
type AccountLoader interface {
	FindByID(ctx context.Context, id uint) (apimodels.User, error)
}

// Auth validates a bearer JWT and loads the account into gin's context
// under "user"/"userId". Requests without a valid token are rejected.
func Auth(secret string, loader AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}
		if exp, ok := claims["exp"].(float64); ok && time.Now().Unix() > int64(exp) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			c.Abort()
			return
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			c.Abort()
			return
		}

		user, err := loader.FindByID(c.Request.Context(), uint(sub))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
			c.Abort()
			return
		}
		if !user.Active {
			c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userId", user.ID)
		c.Next()
	}
}

// extractToken reads the bearer token from the Authorization header,
// falling back to the Authorization cookie (spec's API gates the same
// three core operations the CLI exposes, over HTTP).
func extractToken(c *gin.Context) string {
	bearer := c.GetHeader("Authorization")
	if bearer != "" {
		parts := strings.SplitN(bearer, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return bearer
	}
	token, err := c.Cookie("Authorization")
	if err == nil && token != "" {
		return token
	}
	return ""
}
