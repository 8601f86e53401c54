// Package auth decodes bearer tokens issued by the identity service.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// UserIDKey is the gin context key holding the decoded user id
const UserIDKey = "user_id"

var (
	ErrNoToken       = errors.New("authorization header must be Bearer <token>")
	ErrNotConfigured = errors.New("token signing secret not configured")
	ErrNoSubject     = errors.New("token has no subject")
)

// Decoder validates HS256 tokens and extracts the subject
type Decoder struct {
	secret []byte
}

// NewDecoder creates a decoder for the identity service signing secret
func NewDecoder(secret string) *Decoder {
	return &Decoder{secret: []byte(secret)}
}

// Configured reports whether a signing secret is set
func (d *Decoder) Configured() bool {
	return len(d.secret) > 0
}

// UserID returns the "sub" claim of the bearer token in header
func (d *Decoder) UserID(header string) (string, error) {
	if len(d.secret) == 0 {
		return "", ErrNotConfigured
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrNoToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return d.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrNoSubject
	}

	return claims.Subject, nil
}

// OptionalUser stores the caller's user id in the context when a valid
// bearer token is present. Requests without one pass through untouched.
func OptionalUser(d *Decoder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		userID, err := d.UserID(header)
		if err != nil {
			if !errors.Is(err, ErrNotConfigured) {
				logger.Debug("Ignoring bearer token", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserIDFrom returns the user id stored by OptionalUser, if any
func UserIDFrom(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// RequireUser rejects requests without a valid bearer token
func RequireUser(d *Decoder, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := d.UserID(c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
				return
			}
			logger.Warn("Rejected request without valid token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
