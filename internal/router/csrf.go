package router

import (
	"errors"
	"net/http"

	"feedback-go/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Define keys for storing the token in the session and context.
const (
	csrfTokenSessionKey = "csrf_token"
	csrfTokenFormKey    = "_csrf"
	csrfTokenContextKey = "csrf_token"
	csrfTokenHeaderKey  = "X-CSRF-Token"
)

func isUnsafe(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// CSRFProtection keeps a per-session token and requires it on unsafe methods.
func CSRFProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		// Get or create the real CSRF token for the session.
		var token string
		if sessionToken, ok := session.Get(csrfTokenSessionKey).(string); ok {
			token = sessionToken
		} else {
			newToken, err := utils.GenerateSecureToken(32)
			if err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to generate CSRF token"))
				return
			}
			token = newToken
			session.Set(csrfTokenSessionKey, token)
			if err := session.Save(); err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to save session"))
				return
			}
		}

		c.Set(csrfTokenContextKey, token)

		if isUnsafe(c.Request.Method) {
			submitted := c.GetHeader(csrfTokenHeaderKey)
			if submitted == "" {
				submitted = c.PostForm(csrfTokenFormKey)
			}
			if submitted == "" || submitted != token {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid CSRF token"})
				return
			}
		}

		c.Next()
	}
}

// CSRFToken hands the session's token to API clients.
func CSRFToken(c *gin.Context) {
	token, _ := c.Get(csrfTokenContextKey)
	c.JSON(http.StatusOK, gin.H{"csrfToken": token})
}
