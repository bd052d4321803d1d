package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gitactdash/internal/application/dto"
	"gitactdash/internal/application/service"
	"gitactdash/internal/domain/ui"
)

// PreferencesHandler handles the sidebar and theme preferences of a browser
type PreferencesHandler struct {
	preferencesService *service.PreferencesService
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(preferencesService *service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{preferencesService: preferencesService}
}

// GetPreferences handles GET /preferences
// @Summary Get display preferences
// @Description Returns the theme and sidebar state stored for this browser
// @Tags Preferences
// @Produce json
// @Success 200 {object} DataResponse{data=dto.PreferencesResponse}
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /v1/preferences [get]
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	render(c, h.preferencesService.Load(c.Request.Context()), storageFailure, dto.NewPreferencesResponse)
}

// UpdatePreferences handles PUT /preferences
// @Summary Update display preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Param request body dto.UpdatePreferencesRequest true "Preferences"
// @Success 200 {object} DataResponse{data=dto.PreferencesResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /v1/preferences [put]
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	var req dto.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if _, err := ui.ParseTheme(req.Theme); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_theme",
			Message: "Theme must be 'light' or 'dark'",
			Details: err.Error(),
		})
		return
	}

	render(c, h.preferencesService.Update(c.Request.Context(), req.ToDomain()), storageFailure, dto.NewPreferencesResponse)
}

// ToggleSidebar handles POST /preferences/sidebar/toggle
// @Summary Toggle the sidebar
// @Tags Preferences
// @Produce json
// @Success 200 {object} DataResponse{data=dto.PreferencesResponse}
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /v1/preferences/sidebar/toggle [post]
func (h *PreferencesHandler) ToggleSidebar(c *gin.Context) {
	render(c, h.preferencesService.ToggleSidebar(c.Request.Context()), storageFailure, dto.NewPreferencesResponse)
}

// ToggleTheme handles POST /preferences/theme/toggle
// @Summary Toggle the theme
// @Tags Preferences
// @Produce json
// @Success 200 {object} DataResponse{data=dto.PreferencesResponse}
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /v1/preferences/theme/toggle [post]
func (h *PreferencesHandler) ToggleTheme(c *gin.Context) {
	render(c, h.preferencesService.ToggleTheme(c.Request.Context()), storageFailure, dto.NewPreferencesResponse)
}
