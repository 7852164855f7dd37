package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"staffdesk/api/internal/config"
	"staffdesk/api/internal/models"
	"staffdesk/api/internal/security"
)

const (
	ContextAccount = "current_account"
	ContextClaims  = "session_claims"
)

type AccountLoader interface {
	GetByID(ctx context.Context, id string) (models.Account, error)
}

// Auth validates the bearer session token and loads the calling account.
// The token is stateless; the account lookup backs the role/status checks
// downstream.
func Auth(cfg *config.AppConfig, accounts AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		claims, err := security.ParseSessionToken(strings.TrimPrefix(authHeader, "Bearer "), cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		account, err := accounts.GetByID(c.Request.Context(), claims.AccountID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		c.Set(ContextClaims, *claims)
		c.Set(ContextAccount, account)

		c.Next()
	}
}

// CurrentAccount returns the account attached by Auth.
func CurrentAccount(c *gin.Context) (models.Account, bool) {
	value, exists := c.Get(ContextAccount)
	if !exists {
		return models.Account{}, false
	}
	account, ok := value.(models.Account)
	return account, ok
}
