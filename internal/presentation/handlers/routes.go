package handlers

import (
	"github.com/gin-gonic/gin"
)

// Routes bundles the handlers mounted by RegisterRoutes
type Routes struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	Repository  *RepositoryHandler
	Preferences *PreferencesHandler
	RequireAuth gin.HandlerFunc
}

// RegisterRoutes mounts the OAuth endpoints under /api/auth and the JSON API
// under /api/v1
func RegisterRoutes(router gin.IRouter, r Routes) {
	auth := router.Group("/api/auth")
	{
		auth.GET("/login", r.Auth.Login)
		auth.GET("/callback", r.Auth.Callback)
		auth.GET("/logout", r.Auth.Logout)
		auth.GET("/status", r.Auth.Status)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.Health.Health)

		repos := v1.Group("/repositories")
		repos.Use(r.RequireAuth)
		{
			repos.GET("", r.Repository.ListRepositories)
			repos.GET("/:owner/:repo/workflows", r.Repository.ListWorkflows)
			repos.GET("/:owner/:repo/summary", r.Repository.WorkflowSummary)
			repos.GET("/:owner/:repo/workflows/:workflowID/runs/latest", r.Repository.GetLatestRun)
		}

		v1.GET("/dashboard", r.RequireAuth, r.Repository.Dashboard)

		prefs := v1.Group("/preferences")
		{
			prefs.GET("", r.Preferences.GetPreferences)
			prefs.PUT("", r.Preferences.UpdatePreferences)
			prefs.POST("/sidebar/toggle", r.Preferences.ToggleSidebar)
			prefs.POST("/theme/toggle", r.Preferences.ToggleTheme)
		}
	}
}
