package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys populated by the auth guards.
const (
	ContextUserID  = "userId"
	ContextIsAdmin = "isAdmin"
)

type callerIdentity struct {
	UserID  primitive.ObjectID
	IsAdmin bool
}

// parseCaller validates the bearer token and extracts the caller identity.
// Tokens are issued by the external auth service; this service only trusts
// the shared secret.
func parseCaller(header, secret string) (callerIdentity, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return callerIdentity{}, errors.New("missing token")
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return callerIdentity{}, errors.New("invalid token format")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return callerIdentity{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return callerIdentity{}, errors.New("invalid token claims")
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		return callerIdentity{}, errors.New("userId claim missing")
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		return callerIdentity{}, errors.New("invalid userId claim")
	}

	role, _ := claims["role"].(string)

	return callerIdentity{UserID: userID, IsAdmin: role == "admin"}, nil
}

// UserAuth requires a valid caller identity and injects it into the context.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := parseCaller(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(ContextUserID, caller.UserID)
		c.Set(ContextIsAdmin, caller.IsAdmin)
		c.Next()
	}
}

// AdminAuth additionally requires the admin role.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := parseCaller(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !caller.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set(ContextUserID, caller.UserID)
		c.Set(ContextIsAdmin, true)
		c.Next()
	}
}
