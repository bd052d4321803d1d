package ui

// Preferences are the per-browser display settings
type Preferences struct {
	Theme            Theme `json:"theme"`
	SidebarCollapsed bool  `json:"sidebarCollapsed"`
}

// DefaultPreferences is what a browser without stored preferences gets
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight}
}
