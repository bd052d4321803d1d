package repo

import (
	"context"

	"gitactdash/internal/domain/workflow"
)

// GitHubClient is the domain port to the GitHub API, scoped to one access
// token. Implementation lives in the infrastructure layer and reports
// failures with the errors in errors.go.
type GitHubClient interface {
	// ListUserRepositories lists repositories of the authenticated user
	ListUserRepositories(ctx context.Context) ([]*Repository, error)
	// ListOrganizations lists organizations of the authenticated user
	ListOrganizations(ctx context.Context) ([]*Organization, error)
	// ListOrganizationRepositories lists the repositories of an organization
	ListOrganizationRepositories(ctx context.Context, org string) ([]*Repository, error)
	// ListWorkflows lists the Actions workflows of a repository
	ListWorkflows(ctx context.Context, owner, name string) ([]*workflow.Workflow, error)
	// ListWorkflowRuns lists runs of a workflow, newest first
	ListWorkflowRuns(ctx context.Context, owner, name string, workflowID int64) ([]*workflow.Run, error)
}

// GitHubClientFactory builds a GitHubClient for an access token
type GitHubClientFactory interface {
	ForToken(accessToken string) GitHubClient
}
