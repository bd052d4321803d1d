package github_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitactdash/internal/domain/repo"
	infraGitHub "gitactdash/internal/infrastructure/github"
)

func newClient(t *testing.T, mux *http.ServeMux) repo.GitHubClient {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	factory, err := infraGitHub.NewClientFactory(server.URL)
	require.NoError(t, err)
	return factory.ForToken("token-123")
}

func TestListUserRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		fmt.Fprint(w, `[
			{"id": 1, "name": "hello", "full_name": "octo/hello", "private": true, "stargazers_count": 4,
			 "description": "greeting", "language": "Go", "default_branch": "main",
			 "html_url": "https://github.com/octo/hello", "updated_at": "2025-03-01T10:00:00Z",
			 "owner": {"login": "octo", "type": "User"}},
			{"id": 2, "name": "infra", "full_name": "acme/infra",
			 "owner": {"login": "acme", "type": "Organization"}}
		]`)
	})

	repos, err := newClient(t, mux).ListUserRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)

	hello := repos[0]
	assert.Equal(t, int64(1), hello.ID)
	assert.Equal(t, "octo/hello", hello.FullName)
	assert.Equal(t, "octo", hello.OwnerLogin)
	assert.Equal(t, repo.RepositoryTypePersonal, hello.Type())
	assert.True(t, hello.Private)
	assert.Equal(t, 4, hello.Stars)
	require.NotNil(t, hello.Description)
	assert.Equal(t, "greeting", *hello.Description)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), hello.UpdatedAt.UTC())

	assert.Equal(t, repo.RepositoryTypeOrganization, repos[1].Type())
	assert.Nil(t, repos[1].Description)
}

func TestListOrganizationsAndTheirRepositories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/orgs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 10, "login": "acme"}]`)
	})
	mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 2, "name": "infra", "full_name": "acme/infra", "owner": {"login": "acme", "type": "Organization"}}]`)
	})

	client := newClient(t, mux)

	orgs, err := client.ListOrganizations(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "acme", orgs[0].Login)

	repos, err := client.ListOrganizationRepositories(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "acme/infra", repos[0].FullName)
}

func TestListWorkflowsAndRuns(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello/actions/workflows", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count": 1, "workflows": [
			{"id": 7, "name": "CI", "path": ".github/workflows/ci.yml", "state": "active", "html_url": "https://github.com/octo/hello/blob/main/.github/workflows/ci.yml"}
		]}`)
	})
	mux.HandleFunc("/repos/octo/hello/actions/workflows/7/runs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total_count": 2, "workflow_runs": [
			{"id": 200, "name": "CI", "run_number": 12, "status": "completed", "conclusion": "success", "head_branch": "main", "event": "push"},
			{"id": 199, "name": "CI", "run_number": 11, "status": "completed", "conclusion": "failure"}
		]}`)
	})

	client := newClient(t, mux)

	workflows, err := client.ListWorkflows(context.Background(), "octo", "hello")
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, int64(7), workflows[0].ID)
	assert.Equal(t, "active", workflows[0].State)

	runs, err := client.ListWorkflowRuns(context.Background(), "octo", "hello", 7)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(200), runs[0].ID)
	assert.Equal(t, 12, runs[0].RunNumber)
	assert.Equal(t, "success", runs[0].DisplayStatus())
}

func TestErrorTranslation(t *testing.T) {
	reset := time.Now().Add(time.Hour).Truncate(time.Second)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/missing/actions/workflows", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})
	mux.HandleFunc("/repos/octo/private/actions/workflows", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message": "Bad credentials"}`)
	})
	mux.HandleFunc("/repos/octo/broken/actions/workflows", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "Server Error"}`)
	})
	mux.HandleFunc("/user/orgs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
	})

	client := newClient(t, mux)
	ctx := context.Background()

	_, err := client.ListWorkflows(ctx, "octo", "missing")
	assert.True(t, errors.Is(err, repo.ErrNotFound), "got %v", err)

	_, err = client.ListWorkflows(ctx, "octo", "private")
	assert.True(t, errors.Is(err, repo.ErrUnauthorized), "got %v", err)

	_, err = client.ListWorkflows(ctx, "octo", "broken")
	var apiErr *repo.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Server Error", apiErr.Message)

	_, err = client.ListOrganizations(ctx)
	var rateErr *repo.RateLimitError
	require.True(t, errors.As(err, &rateErr), "got %v", err)
	assert.True(t, rateErr.Reset.Equal(reset), "reset = %v, want %v", rateErr.Reset, reset)
}

func TestNewClientFactoryRejectsBadURL(t *testing.T) {
	_, err := infraGitHub.NewClientFactory("://bad")
	assert.Error(t, err)
}
