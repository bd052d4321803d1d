package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gitactdash/internal/logging"
)

// AccessTokenKey is the gin context key holding the caller's GitHub access token
const AccessTokenKey = "github_access_token"

// SessionParser extracts the GitHub access token from a session value
type SessionParser interface {
	AccessToken(session string) (string, error)
}

// AuthMiddleware authenticates requests with the session issued at OAuth login
type AuthMiddleware struct {
	sessions   SessionParser
	cookieName string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(sessions SessionParser, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, cookieName: cookieName}
}

// RequireAuth is a Gin middleware that requires a valid session. The session
// is read from the cookie, or from an "Authorization: Bearer" header for
// non-browser clients.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := am.sessionFrom(c)
		if session == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Please sign in with GitHub",
			})
			c.Abort()
			return
		}

		token, err := am.sessions.AccessToken(session)
		if err != nil {
			logging.FromContext(c.Request.Context()).WithError(err).Warn("Rejected session")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid or expired session. Please sign in again.",
			})
			c.Abort()
			return
		}

		c.Set(AccessTokenKey, token)
		c.Next()
	}
}

func (am *AuthMiddleware) sessionFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(am.cookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// AccessToken returns the GitHub access token stored by RequireAuth
func AccessToken(c *gin.Context) (string, bool) {
	token := c.GetString(AccessTokenKey)
	return token, token != ""
}
