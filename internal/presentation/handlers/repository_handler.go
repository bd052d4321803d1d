package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gitactdash/internal/application/dto"
	"gitactdash/internal/application/service"
	"gitactdash/internal/domain/repo"
	"gitactdash/internal/middleware"
)

// MaxDashboardRepositories caps the repo values one dashboard request accepts
const MaxDashboardRepositories = 50

// RepositoryHandler handles repository and workflow HTTP requests
type RepositoryHandler struct {
	clients repo.GitHubClientFactory
}

// NewRepositoryHandler creates a new repository handler
func NewRepositoryHandler(clients repo.GitHubClientFactory) *RepositoryHandler {
	return &RepositoryHandler{clients: clients}
}

// gitHubService builds the service for the signed-in user. RequireAuth must
// run first.
func (h *RepositoryHandler) gitHubService(c *gin.Context) (*service.GitHubService, bool) {
	token, ok := middleware.AccessToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Please sign in with GitHub",
		})
		return nil, false
	}
	return service.NewGitHubService(h.clients.ForToken(token)), true
}

// ListRepositories handles GET /repositories
// @Summary List repositories
// @Description Returns the personal and organization repositories of the signed-in user
// @Tags Repositories
// @Produce json
// @Security SessionCookie
// @Param search query string false "Matches name, full name or description"
// @Param type query string false "all, personal or organization" default(all)
// @Param sort query string false "name or updated" default(name)
// @Param ascending query bool false "Sort direction" default(true)
// @Success 200 {object} DataResponse{data=[]dto.RepositoryResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /v1/repositories [get]
func (h *RepositoryHandler) ListRepositories(c *gin.Context) {
	filter, err := repo.ParseFilter(c.Query("search"), c.Query("type"), c.Query("sort"), c.Query("ascending"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_filter",
			Message: err.Error(),
		})
		return
	}

	svc, ok := h.gitHubService(c)
	if !ok {
		return
	}
	render(c, svc.FilterRepositories(c.Request.Context(), filter), upstreamFailure, dto.NewRepositoryListResponse)
}

// ListWorkflows handles GET /repositories/:owner/:repo/workflows
// @Summary List workflows
// @Description Returns the Actions workflows of a repository
// @Tags Workflows
// @Produce json
// @Security SessionCookie
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Success 200 {object} DataResponse{data=[]dto.WorkflowResponse}
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /v1/repositories/{owner}/{repo}/workflows [get]
func (h *RepositoryHandler) ListWorkflows(c *gin.Context) {
	svc, ok := h.gitHubService(c)
	if !ok {
		return
	}
	r := svc.GetWorkflows(c.Request.Context(), c.Param("owner"), c.Param("repo"))
	render(c, r, upstreamFailure, dto.NewWorkflowListResponse)
}

// WorkflowSummary handles GET /repositories/:owner/:repo/summary
// @Summary Workflows with their latest run
// @Description Returns every workflow of a repository with its most recent run. Runs that could not be loaded are reported as warnings.
// @Tags Workflows
// @Produce json
// @Security SessionCookie
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Success 200 {object} DataResponse{data=[]dto.WorkflowSummaryResponse}
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /v1/repositories/{owner}/{repo}/summary [get]
func (h *RepositoryHandler) WorkflowSummary(c *gin.Context) {
	svc, ok := h.gitHubService(c)
	if !ok {
		return
	}
	coords := repo.Coordinates{Owner: c.Param("owner"), Name: c.Param("repo")}
	render(c, svc.GetWorkflowsWithLatestRuns(c.Request.Context(), coords), upstreamFailure, dto.NewWorkflowSummaryListResponse)
}

// GetLatestRun handles GET /repositories/:owner/:repo/workflows/:workflowID/runs/latest
// @Summary Latest workflow run
// @Description Returns the most recent run of a workflow, or null when it never ran
// @Tags Workflows
// @Produce json
// @Security SessionCookie
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Param workflowID path int true "Workflow ID"
// @Success 200 {object} DataResponse{data=dto.WorkflowRunResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /v1/repositories/{owner}/{repo}/workflows/{workflowID}/runs/latest [get]
func (h *RepositoryHandler) GetLatestRun(c *gin.Context) {
	workflowID, err := strconv.ParseInt(c.Param("workflowID"), 10, 64)
	if err != nil || workflowID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_workflow_id",
			Message: "Workflow ID must be a positive integer",
		})
		return
	}

	svc, ok := h.gitHubService(c)
	if !ok {
		return
	}
	r := svc.GetLatestWorkflowRun(c.Request.Context(), c.Param("owner"), c.Param("repo"), workflowID)
	render(c, r, upstreamFailure, dto.NewWorkflowRunResponse)
}

// Dashboard handles GET /dashboard
// @Summary Dashboard
// @Description Returns workflow summaries for several repositories. Repositories that fail to load are skipped and reported as warnings.
// @Tags Dashboard
// @Produce json
// @Security SessionCookie
// @Param repo query []string true "Repository as owner/name" collectionFormat(multi)
// @Success 200 {object} DataResponse{data=[]dto.RepositoryDashboardResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /v1/dashboard [get]
func (h *RepositoryHandler) Dashboard(c *gin.Context) {
	raw := c.QueryArray("repo")
	if len(raw) > MaxDashboardRepositories {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_repository",
			Message: fmt.Sprintf("At most %d repositories can be shown at once", MaxDashboardRepositories),
		})
		return
	}
	coords := make([]repo.Coordinates, 0, len(raw))
	for _, s := range raw {
		parsed, err := repo.ParseCoordinates(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_repository",
				Message: err.Error(),
			})
			return
		}
		coords = append(coords, parsed)
	}

	svc, ok := h.gitHubService(c)
	if !ok {
		return
	}
	render(c, svc.GetDashboard(c.Request.Context(), coords), upstreamFailure, dto.NewDashboardResponse)
}
