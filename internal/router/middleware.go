package router

import (
	"net/http"

	"feedback-go/internal/handlers"
	"feedback-go/internal/identity"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLoaderMiddleware checks for a user id in the session and, if it still
// resolves to a user, attaches that user to the request context.
func UserLoaderMiddleware(log *zap.Logger, accounts handlers.AccountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(handlers.SessionUserKey).(uint)
		if !ok {
			c.Next()
			return
		}

		user, err := accounts.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			// User ID from session is invalid (user was deleted, etc.)
			log.Debug("Dropping session for unknown user", zap.Uint("userID", userID), zap.Error(err))
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			session.Save()
			c.Next()
			return
		}

		ctx := identity.ContextWithUser(c.Request.Context(), identity.FromModel(user))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AuthRequired rejects requests without a signed-in user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity.UserFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}
