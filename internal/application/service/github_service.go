package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gitactdash/internal/domain/repo"
	"gitactdash/internal/domain/workflow"
	"gitactdash/internal/logging"
	"gitactdash/internal/result"
)

const gitHubServiceName = "GitHubService"

// DashboardConcurrency is the most repositories GetDashboard loads at once.
// Each repository is one sequential chain of GitHub calls.
const DashboardConcurrency = 4

// GitHubService wraps a token-scoped GitHub client and reports every outcome
// as a result.Result instead of an error
type GitHubService struct {
	client repo.GitHubClient
}

// NewGitHubService creates a new GitHub service
func NewGitHubService(client repo.GitHubClient) *GitHubService {
	return &GitHubService{client: client}
}

// GetUserRepositories lists personal and organization repositories, without
// duplicates
func (s *GitHubService) GetUserRepositories(ctx context.Context) result.Result[[]*repo.Repository] {
	ctx, log := logging.ForServiceOperation(ctx, gitHubServiceName, "GetUserRepositories")
	defer logging.TimeOperation(ctx, "GetUserRepositories")()

	if ctx.Err() != nil {
		log.Warn("Operation was cancelled before starting")
		return result.Success([]*repo.Repository{})
	}

	log.Info("Starting to fetch user repositories")

	all, err := s.client.ListUserRepositories(ctx)
	if err != nil {
		return s.repositoriesFailure(ctx, err)
	}
	log.WithField("count", len(all)).Debug("Fetched personal repositories")

	orgs, err := s.client.ListOrganizations(ctx)
	if err != nil {
		return s.repositoriesFailure(ctx, err)
	}
	log.WithField("count", len(orgs)).Debug("Found organizations")

	for _, org := range orgs {
		if ctx.Err() != nil {
			log.Warn("Operation was cancelled while fetching organization repositories")
			break
		}

		orgCtx, orgLog := logging.ForGitHubOperation(ctx, "GetOrgRepositories", "", org.Login)
		orgRepos, err := s.client.ListOrganizationRepositories(orgCtx, org.Login)
		if err != nil {
			return s.repositoriesFailure(orgCtx, err)
		}
		all = append(all, orgRepos...)
		orgLog.WithField("count", len(orgRepos)).Debug("Fetched organization repositories")
	}

	distinct := repo.DistinctByID(all)
	log.WithField("total", len(all)).WithField("unique", len(distinct)).Info("Successfully fetched repositories")

	return result.Success(distinct)
}

func (s *GitHubService) repositoriesFailure(ctx context.Context, err error) result.Result[[]*repo.Repository] {
	logging.FromContext(ctx).WithError(err).Error("Failed to fetch repositories")
	return result.Failure[[]*repo.Repository](describe(err, "Unexpected error while fetching repositories: "))
}

// FilterRepositories lists repositories and applies filter to them
func (s *GitHubService) FilterRepositories(ctx context.Context, filter repo.Filter) result.Result[[]*repo.Repository] {
	return result.Map(s.GetUserRepositories(ctx), filter.Apply)
}

// GetWorkflows lists the workflows of owner/name
func (s *GitHubService) GetWorkflows(ctx context.Context, owner, name string) result.Result[[]*workflow.Workflow] {
	ctx, log := logging.ForServiceOperation(ctx, gitHubServiceName, "GetWorkflows")
	defer logging.TimeOperation(ctx, "GetWorkflows")()

	if ctx.Err() != nil {
		return result.Success([]*workflow.Workflow{})
	}
	if msg, ok := validateCoordinates(owner, name); !ok {
		return result.Failure[[]*workflow.Workflow](msg)
	}

	ctx, log = logging.ForGitHubOperation(ctx, "ListWorkflows", owner+"/"+name, "")
	workflows, err := s.client.ListWorkflows(ctx, owner, name)
	if err != nil {
		log.WithError(err).Error("Failed to fetch workflows")
		if errors.Is(err, repo.ErrNotFound) {
			return result.Failuref[[]*workflow.Workflow]("Repository '%s/%s' not found or you don't have access to it.", owner, name)
		}
		return result.Failure[[]*workflow.Workflow](describe(err, fmt.Sprintf("Unexpected error while fetching workflows for '%s/%s': ", owner, name)))
	}

	log.WithField("count", len(workflows)).Debug("Fetched workflows")
	return result.Success(workflows)
}

// GetLatestWorkflowRun returns the newest run of a workflow, or nil when it
// never ran
func (s *GitHubService) GetLatestWorkflowRun(ctx context.Context, owner, name string, workflowID int64) result.Result[*workflow.Run] {
	ctx, log := logging.ForServiceOperation(ctx, gitHubServiceName, "GetLatestWorkflowRun")

	if ctx.Err() != nil {
		return result.Success[*workflow.Run](nil)
	}
	if msg, ok := validateCoordinates(owner, name); !ok {
		return result.Failure[*workflow.Run](msg)
	}

	runs, err := s.client.ListWorkflowRuns(ctx, owner, name, workflowID)
	if err != nil {
		log.WithError(err).WithField("workflow_id", workflowID).Warn("Failed to fetch workflow runs")
		if errors.Is(err, repo.ErrNotFound) {
			return result.Failuref[*workflow.Run]("Workflow with ID '%d' not found in repository '%s/%s'.", workflowID, owner, name)
		}
		return result.Failure[*workflow.Run](describe(err, fmt.Sprintf("Unexpected error while fetching latest run for workflow '%d' in '%s/%s': ", workflowID, owner, name)))
	}

	if len(runs) == 0 {
		return result.Success[*workflow.Run](nil)
	}
	return result.Success(runs[0])
}

// GetWorkflowsWithLatestRuns summarises every workflow of a repository with
// its latest run. A workflow whose run cannot be fetched is still listed and
// turns the result into a Warning.
func (s *GitHubService) GetWorkflowsWithLatestRuns(ctx context.Context, coords repo.Coordinates) result.Result[[]workflow.WithLatestRun] {
	ctx, log := logging.ForServiceOperation(ctx, gitHubServiceName, "GetWorkflowsWithLatestRuns")
	defer logging.TimeOperation(ctx, "GetWorkflowsWithLatestRuns")()

	return result.Bind(s.GetWorkflows(ctx, coords.Owner, coords.Name), func(workflows []*workflow.Workflow) result.Result[[]workflow.WithLatestRun] {
		summaries := make([]workflow.WithLatestRun, 0, len(workflows))
		var warnings []string

		for _, w := range workflows {
			if ctx.Err() != nil {
				log.Warn("Operation was cancelled while fetching latest runs")
				break
			}

			latest := s.GetLatestWorkflowRun(ctx, coords.Owner, coords.Name, w.ID)
			result.OnFailure(latest, func(msg string) {
				warnings = append(warnings, fmt.Sprintf("Failed to get latest run for workflow '%s': %s", w.Name, msg))
			})
			summaries = append(summaries, workflow.NewWithLatestRun(w, latest.ValueOrDefault(nil)))
		}

		if len(warnings) > 0 {
			return result.Warning(summaries, warnings[0], warnings[1:]...)
		}
		return result.Success(summaries)
	})
}

// GetDashboard loads the workflow summaries of several repositories, at most
// DashboardConcurrency at a time. A repository that fails is reported as a
// warning and left out.
func (s *GitHubService) GetDashboard(ctx context.Context, repositories []repo.Coordinates) result.Result[[]repo.Dashboard] {
	ctx, log := logging.ForServiceOperation(ctx, gitHubServiceName, "GetDashboard")
	defer logging.TimeOperation(ctx, "GetDashboard")()

	if ctx.Err() != nil {
		return result.Success([]repo.Dashboard{})
	}

	unique := distinctCoordinates(repositories)
	loaded := make([]result.Result[[]workflow.WithLatestRun], len(unique))

	var g errgroup.Group
	g.SetLimit(DashboardConcurrency)
	for i, coords := range unique {
		g.Go(func() error {
			loaded[i] = result.Go(ctx, func(ctx context.Context) result.Result[[]workflow.WithLatestRun] {
				return s.GetWorkflowsWithLatestRuns(ctx, coords)
			}).Await()
			return nil
		})
	}
	_ = g.Wait()

	dashboards := make([]repo.Dashboard, 0, len(unique))
	var warnings []string
	for i, r := range loaded {
		coords := unique[i]
		if r.IsFailure() {
			msg, _ := r.Message()
			warnings = append(warnings, fmt.Sprintf("Failed to load workflows for '%s': %s", coords, msg))
			continue
		}
		if r.IsWarning() {
			warnings = append(warnings, r.Messages()...)
		}
		workflows, _ := r.Value()
		dashboards = append(dashboards, repo.Dashboard{Repository: coords, Workflows: workflows})
	}

	log.WithField("repositories", len(unique)).WithField("warnings", len(warnings)).Info("Dashboard assembled")

	if len(warnings) > 0 {
		return result.Warning(dashboards, warnings[0], warnings[1:]...)
	}
	return result.Success(dashboards)
}

func distinctCoordinates(in []repo.Coordinates) []repo.Coordinates {
	seen := make(map[string]struct{}, len(in))
	out := make([]repo.Coordinates, 0, len(in))
	for _, c := range in {
		key := strings.ToLower(c.String())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func validateCoordinates(owner, name string) (string, bool) {
	if strings.TrimSpace(owner) == "" {
		return "Repository owner cannot be null or empty.", false
	}
	if strings.TrimSpace(name) == "" {
		return "Repository name cannot be null or empty.", false
	}
	return "", true
}

// describe turns a GitHub client error into the message shown to the user.
// Errors outside the domain taxonomy get unexpectedPrefix.
func describe(err error, unexpectedPrefix string) string {
	var rateErr *repo.RateLimitError
	var apiErr *repo.APIError
	switch {
	case errors.As(err, &rateErr):
		return "GitHub API rate limit exceeded. Reset at: " + rateErr.Reset.UTC().Format(time.RFC3339)
	case errors.Is(err, repo.ErrUnauthorized):
		return "Authorization failed. Please check your GitHub access token."
	case errors.As(err, &apiErr):
		return "GitHub API error: " + apiErr.Message
	case errors.Is(err, repo.ErrNotFound):
		return "GitHub API error: " + err.Error()
	default:
		return unexpectedPrefix + err.Error()
	}
}
