package webserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by JWTMiddleware.
const (
	ctxSubject = "sub"
	ctxAdmin   = "admin"
)

func JWTMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "missing bearer token"})
			return
		}
		tok, err := jwt.Parse(h[7:], func(t *jwt.Token) (interface{}, error) { return secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "invalid token"})
			return
		}
		claims := tok.Claims.(jwt.MapClaims)
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "token has no subject"})
			return
		}
		admin, _ := claims["admin"].(bool)
		c.Set(ctxSubject, sub)
		c.Set(ctxAdmin, admin)
		c.Next()
	}
}

// AdminMiddleware requires a token carrying admin: true. Run after JWTMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"err": "admin access required"})
			return
		}
		c.Next()
	}
}

// IssueToken signs an HS256 token for a Discord user id.
func IssueToken(secret []byte, subject string, admin bool, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	if strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("subject is required")
	}
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
	}
	if admin {
		claims["admin"] = true
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
