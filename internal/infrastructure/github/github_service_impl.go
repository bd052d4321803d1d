package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"gitactdash/internal/domain/repo"
	"gitactdash/internal/domain/workflow"
)

const (
	pageSize    = 100
	runPageSize = 10
)

// ClientFactory builds token-scoped GitHub clients
type ClientFactory struct {
	baseURL *url.URL
	timeout time.Duration
}

// NewClientFactory creates a factory. An empty apiBaseURL targets api.github.com.
func NewClientFactory(apiBaseURL string) (*ClientFactory, error) {
	f := &ClientFactory{timeout: 30 * time.Second}
	if apiBaseURL == "" {
		return f, nil
	}

	if !strings.HasSuffix(apiBaseURL, "/") {
		apiBaseURL += "/"
	}
	u, err := url.Parse(apiBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
	}
	f.baseURL = u
	return f, nil
}

// ForToken returns a client authenticated with accessToken
func (f *ClientFactory) ForToken(accessToken string) repo.GitHubClient {
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	httpClient.Timeout = f.timeout

	client := gh.NewClient(httpClient)
	if f.baseURL != nil {
		client.BaseURL = f.baseURL
	}
	return &GitHubClientImpl{client: client}
}

// GitHubClientImpl implements the domain repo.GitHubClient port with go-github
type GitHubClientImpl struct {
	client *gh.Client
}

// ListUserRepositories lists every repository the token can see as its owner,
// collaborator or organization member
func (c *GitHubClientImpl) ListUserRepositories(ctx context.Context) ([]*repo.Repository, error) {
	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: pageSize},
	}

	var out []*repo.Repository
	for {
		page, resp, err := c.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, translateError(err)
		}
		for _, r := range page {
			out = append(out, toRepository(r))
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListOrganizations lists the organizations of the authenticated user
func (c *GitHubClientImpl) ListOrganizations(ctx context.Context) ([]*repo.Organization, error) {
	opts := &gh.ListOptions{PerPage: pageSize}

	var out []*repo.Organization
	for {
		page, resp, err := c.client.Organizations.List(ctx, "", opts)
		if err != nil {
			return nil, translateError(err)
		}
		for _, o := range page {
			out = append(out, &repo.Organization{ID: o.GetID(), Login: o.GetLogin()})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListOrganizationRepositories lists the repositories of org
func (c *GitHubClientImpl) ListOrganizationRepositories(ctx context.Context, org string) ([]*repo.Repository, error) {
	opts := &gh.RepositoryListByOrgOptions{ListOptions: gh.ListOptions{PerPage: pageSize}}

	var out []*repo.Repository
	for {
		page, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, translateError(err)
		}
		for _, r := range page {
			out = append(out, toRepository(r))
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListWorkflows lists the workflows defined in owner/name
func (c *GitHubClientImpl) ListWorkflows(ctx context.Context, owner, name string) ([]*workflow.Workflow, error) {
	opts := &gh.ListOptions{PerPage: pageSize}

	var out []*workflow.Workflow
	for {
		page, resp, err := c.client.Actions.ListWorkflows(ctx, owner, name, opts)
		if err != nil {
			return nil, translateError(err)
		}
		for _, w := range page.Workflows {
			out = append(out, &workflow.Workflow{
				ID:      w.GetID(),
				Name:    w.GetName(),
				Path:    w.GetPath(),
				State:   w.GetState(),
				HTMLURL: w.GetHTMLURL(),
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListWorkflowRuns returns the most recent runs of a workflow, newest first
func (c *GitHubClientImpl) ListWorkflowRuns(ctx context.Context, owner, name string, workflowID int64) ([]*workflow.Run, error) {
	opts := &gh.ListWorkflowRunsOptions{ListOptions: gh.ListOptions{PerPage: runPageSize}}

	runs, _, err := c.client.Actions.ListWorkflowRunsByID(ctx, owner, name, workflowID, opts)
	if err != nil {
		return nil, translateError(err)
	}

	out := make([]*workflow.Run, 0, len(runs.WorkflowRuns))
	for _, r := range runs.WorkflowRuns {
		out = append(out, &workflow.Run{
			ID:         r.GetID(),
			Name:       r.GetName(),
			RunNumber:  r.GetRunNumber(),
			Status:     r.GetStatus(),
			Conclusion: r.GetConclusion(),
			Event:      r.GetEvent(),
			HeadBranch: r.GetHeadBranch(),
			HTMLURL:    r.GetHTMLURL(),
			CreatedAt:  r.GetCreatedAt().Time,
			UpdatedAt:  r.GetUpdatedAt().Time,
		})
	}
	return out, nil
}

func toRepository(r *gh.Repository) *repo.Repository {
	ownerType := repo.OwnerTypeUser
	if r.GetOwner().GetType() == string(repo.OwnerTypeOrganization) {
		ownerType = repo.OwnerTypeOrganization
	}

	return &repo.Repository{
		ID:            r.GetID(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		OwnerLogin:    r.GetOwner().GetLogin(),
		OwnerType:     ownerType,
		Description:   r.Description,
		HTMLURL:       r.GetHTMLURL(),
		Private:       r.GetPrivate(),
		Fork:          r.GetFork(),
		Archived:      r.GetArchived(),
		Language:      r.Language,
		DefaultBranch: r.GetDefaultBranch(),
		Stars:         r.GetStargazersCount(),
		UpdatedAt:     r.GetUpdatedAt().Time,
	}
}

// translateError maps go-github errors onto the domain error taxonomy
func translateError(err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &repo.RateLimitError{Reset: rateErr.Rate.Reset.Time, Err: err}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &repo.RateLimitError{Reset: time.Now().Add(abuseErr.GetRetryAfter()), Err: err}
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", repo.ErrNotFound, respErr.Message)
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", repo.ErrUnauthorized, respErr.Message)
		default:
			return &repo.APIError{StatusCode: respErr.Response.StatusCode, Message: respErr.Message, Err: err}
		}
	}

	return err
}
