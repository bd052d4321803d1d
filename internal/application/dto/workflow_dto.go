package dto

import (
	"gitactdash/internal/domain/repo"
	"gitactdash/internal/domain/workflow"
)

// WorkflowResponse represents a workflow definition
type WorkflowResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
}

// WorkflowRunResponse represents one workflow run
type WorkflowRunResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	RunNumber     int    `json:"run_number"`
	Status        string `json:"status"`
	Conclusion    string `json:"conclusion,omitempty"`
	DisplayStatus string `json:"display_status"`
	Event         string `json:"event"`
	HeadBranch    string `json:"head_branch"`
	HTMLURL       string `json:"html_url"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// WorkflowSummaryResponse is a workflow with its latest run, if any
type WorkflowSummaryResponse struct {
	WorkflowResponse
	LatestRun *WorkflowRunResponse `json:"latest_run"`
}

// RepositoryDashboardResponse groups the workflow summaries of one repository
type RepositoryDashboardResponse struct {
	Repository string                     `json:"repository"`
	Workflows  []*WorkflowSummaryResponse `json:"workflows"`
}

// NewWorkflowListResponse converts workflow definitions
func NewWorkflowListResponse(workflows []*workflow.Workflow) []*WorkflowResponse {
	out := make([]*WorkflowResponse, 0, len(workflows))
	for _, w := range workflows {
		out = append(out, &WorkflowResponse{
			ID:      w.ID,
			Name:    w.Name,
			Path:    w.Path,
			State:   w.State,
			HTMLURL: w.HTMLURL,
		})
	}
	return out
}

// NewWorkflowRunResponse converts a run; nil stays nil
func NewWorkflowRunResponse(r *workflow.Run) *WorkflowRunResponse {
	if r == nil {
		return nil
	}
	return &WorkflowRunResponse{
		ID:            r.ID,
		Name:          r.Name,
		RunNumber:     r.RunNumber,
		Status:        r.Status,
		Conclusion:    r.Conclusion,
		DisplayStatus: r.DisplayStatus(),
		Event:         r.Event,
		HeadBranch:    r.HeadBranch,
		HTMLURL:       r.HTMLURL,
		CreatedAt:     formatTime(r.CreatedAt),
		UpdatedAt:     formatTime(r.UpdatedAt),
	}
}

// NewWorkflowSummaryListResponse converts workflow summaries
func NewWorkflowSummaryListResponse(summaries []workflow.WithLatestRun) []*WorkflowSummaryResponse {
	out := make([]*WorkflowSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, &WorkflowSummaryResponse{
			WorkflowResponse: WorkflowResponse{
				ID:      s.WorkflowID,
				Name:    s.WorkflowName,
				Path:    s.WorkflowPath,
				State:   s.WorkflowState,
				HTMLURL: s.WorkflowURL,
			},
			LatestRun: NewWorkflowRunResponse(s.LatestRun),
		})
	}
	return out
}

// NewDashboardResponse converts the dashboard of several repositories
func NewDashboardResponse(dashboards []repo.Dashboard) []*RepositoryDashboardResponse {
	out := make([]*RepositoryDashboardResponse, 0, len(dashboards))
	for _, d := range dashboards {
		out = append(out, &RepositoryDashboardResponse{
			Repository: d.Repository.String(),
			Workflows:  NewWorkflowSummaryListResponse(d.Workflows),
		})
	}
	return out
}
