package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gitactdash/internal/domain/storage"
)

const clientCookieMaxAge = 365 * 24 * time.Hour

// ClientIdentity identifies the browser through a long-lived cookie and binds
// it to the request context for client storage. A browser seen for the first
// time is issued a cookie, but storage stays unavailable until the cookie
// comes back on a later request.
func ClientIdentity(cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(cookieName); err == nil {
			if parsed, err := uuid.Parse(id); err == nil {
				c.Request = c.Request.WithContext(storage.WithClientID(c.Request.Context(), parsed.String()))
				c.Next()
				return
			}
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cookieName,
			Value:    uuid.NewString(),
			Path:     "/",
			MaxAge:   int(clientCookieMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
		c.Next()
	}
}
