package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader names the acting user on every user-scoped request.
const UserIDHeader = "X-Sharer-User-Id"

var (
	ErrMissingUserID = errors.New("missing " + UserIDHeader + " header")
	ErrInvalidUserID = errors.New(UserIDHeader + " must be a positive integer")
)

// ParseUserID parses the acting user header value.
func ParseUserID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrMissingUserID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidUserID
	}
	return id, nil
}

// UserRequired is a Gin middleware that reads the acting user from the X-Sharer-User-Id header.
func UserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := ParseUserID(c.GetHeader(UserIDHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}

// GatewayRequired is a Gin middleware that validates the forwarding JWT from Authorization: Bearer <token>
// and checks that its subject matches the X-Sharer-User-Id header.
func GatewayRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		if claims.Subject != strings.TrimSpace(c.GetHeader(UserIDHeader)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "token subject does not match " + UserIDHeader,
			})
			return
		}

		c.Next()
	}
}
