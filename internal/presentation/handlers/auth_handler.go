package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gitactdash/internal/application/service"
	"gitactdash/internal/config"
	"gitactdash/internal/infrastructure/oauth"
	"gitactdash/internal/logging"
)

const stateCookieMaxAge = 600

// AuthHandler handles the GitHub OAuth sign-in flow
type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// Login handles GET /auth/login
// @Summary Start GitHub sign-in
// @Description Redirects the browser to the GitHub authorization page
// @Tags Auth
// @Success 302
// @Failure 400 {object} ErrorResponse
// @Router /auth/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	redirect, state, err := h.authService.LoginRedirect(h.cfg.CallbackURL())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "oauth_not_configured",
			Message: err.Error(),
		})
		return
	}

	h.setCookie(c, h.cfg.Session.StateCookieName, state, "/api/auth", stateCookieMaxAge)
	c.Redirect(http.StatusFound, redirect)
}

// Callback handles GET /auth/callback
// @Summary Complete GitHub sign-in
// @Description Exchanges the authorization code for an access token and starts a session
// @Tags Auth
// @Param code query string true "Authorization code"
// @Param state query string true "State issued at login"
// @Success 302
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	expectedState, _ := c.Cookie(h.cfg.Session.StateCookieName)

	session, err := h.authService.CompleteLogin(c.Request.Context(), c.Query("code"), c.Query("state"), expectedState)
	if err != nil {
		status, code := http.StatusBadGateway, "token_exchange_failed"
		response := ErrorResponse{Message: err.Error()}
		switch {
		case errors.Is(err, service.ErrMissingCode):
			status, code = http.StatusBadRequest, "missing_code"
		case errors.Is(err, service.ErrOAuthNotConfigured):
			status, code = http.StatusBadRequest, "oauth_not_configured"
		case errors.Is(err, service.ErrStateMismatch):
			status, code = http.StatusBadRequest, "state_mismatch"
		case errors.Is(err, oauth.ErrNoAccessToken):
			status, code = http.StatusBadRequest, "no_access_token"
			response.Message = oauth.ErrNoAccessToken.Error()
			if err != oauth.ErrNoAccessToken {
				response.Details = err.Error()
			}
		default:
			logging.FromContext(c.Request.Context()).WithError(err).Error("GitHub sign-in failed")
		}
		response.Error = code
		c.JSON(status, response)
		return
	}

	h.setCookie(c, h.cfg.Session.TokenCookieName, session, "/", int(h.cfg.Session.TTL.Seconds()))
	h.setCookie(c, h.cfg.Session.StateCookieName, "", "/api/auth", -1)
	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout handles GET /auth/logout
// @Summary Sign out
// @Description Clears the session cookie
// @Tags Auth
// @Success 302
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, h.cfg.Session.TokenCookieName, "", "/", -1)
	c.Redirect(http.StatusFound, "/login")
}

// Status handles GET /auth/status
// @Summary Session status
// @Description Reports whether the browser holds a valid session
// @Tags Auth
// @Produce json
// @Success 200 {object} AuthStatusResponse
// @Router /auth/status [get]
func (h *AuthHandler) Status(c *gin.Context) {
	session, _ := c.Cookie(h.cfg.Session.TokenCookieName)
	c.JSON(http.StatusOK, AuthStatusResponse{Authenticated: session != "" && h.authService.IsAuthenticated(session)})
}

// AuthStatusResponse represents the session status
type AuthStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value, path string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Server.UseHTTPS,
		SameSite: http.SameSiteLaxMode,
	})
}
