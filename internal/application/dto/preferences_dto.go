package dto

import (
	"gitactdash/internal/domain/ui"
)

// PreferencesResponse represents the display preferences of a browser
type PreferencesResponse struct {
	Theme            string `json:"theme"`
	SidebarCollapsed bool   `json:"sidebar_collapsed"`
}

// UpdatePreferencesRequest is the body of PUT /preferences
type UpdatePreferencesRequest struct {
	Theme            string `json:"theme" binding:"required"`
	SidebarCollapsed *bool  `json:"sidebar_collapsed" binding:"required"`
}

// ToDomain converts the request
func (r UpdatePreferencesRequest) ToDomain() ui.Preferences {
	collapsed := r.SidebarCollapsed != nil && *r.SidebarCollapsed
	return ui.Preferences{Theme: ui.Theme(r.Theme), SidebarCollapsed: collapsed}
}

// NewPreferencesResponse converts preferences
func NewPreferencesResponse(p ui.Preferences) *PreferencesResponse {
	return &PreferencesResponse{Theme: string(p.Theme), SidebarCollapsed: p.SidebarCollapsed}
}
