package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pollhub-dev/pollhub/internal/auth"
	"github.com/pollhub-dev/pollhub/internal/models"
	"github.com/pollhub-dev/pollhub/internal/types"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// tokenFromRequest accepts either a Bearer header or the session cookie
// set at login.
func tokenFromRequest(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}

		return ""
	}

	if cookie, err := ctx.Cookie("token"); err == nil {
		return cookie
	}

	return ""
}

func resolveUser(db *gorm.DB, tokenString string) (AuthenticatedUser, bool) {
	token, err := auth.VerifyJWT(tokenString)

	if err != nil || !token.Valid {
		return AuthenticatedUser{}, false
	}

	userID, err := auth.UserIDFromToken(token)

	if err != nil {
		return AuthenticatedUser{}, false
	}

	var user models.User

	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		return AuthenticatedUser{}, false
	}

	return AuthenticatedUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, true
}

// RequireAuth rejects the request unless it carries a valid session token
// for an existing user.
func RequireAuth(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := tokenFromRequest(ctx)

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		user, ok := resolveUser(db, tokenString)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

// OptionalAuth attaches the current user when a valid token is present
// and lets the request through either way. Read endpoints use it to
// include "already voted" state for signed-in viewers.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if tokenString := tokenFromRequest(ctx); tokenString != "" {
			if user, ok := resolveUser(db, tokenString); ok {
				ctx.Set(types.ContextUserKey, user)
			}
		}

		ctx.Next()
	}
}
