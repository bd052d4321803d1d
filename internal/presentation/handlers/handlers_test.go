package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitactdash/internal/application/service"
	"gitactdash/internal/config"
	"gitactdash/internal/domain/repo"
	"gitactdash/internal/domain/workflow"
	"gitactdash/internal/infrastructure/oauth"
	"gitactdash/internal/infrastructure/persistence"
	"gitactdash/internal/middleware"
	"gitactdash/internal/presentation/handlers"
)

const knownClient = "3f6c2a4e-8b1d-4c1e-9a57-2d0f6b7c9e11"

type fakeGitHub struct {
	repos     []*repo.Repository
	reposErr  error
	workflows map[string][]*workflow.Workflow
	runs      map[int64][]*workflow.Run
}

func (f *fakeGitHub) ListUserRepositories(ctx context.Context) ([]*repo.Repository, error) {
	return f.repos, f.reposErr
}

func (f *fakeGitHub) ListOrganizations(ctx context.Context) ([]*repo.Organization, error) {
	return nil, nil
}

func (f *fakeGitHub) ListOrganizationRepositories(ctx context.Context, org string) ([]*repo.Repository, error) {
	return nil, nil
}

func (f *fakeGitHub) ListWorkflows(ctx context.Context, owner, name string) ([]*workflow.Workflow, error) {
	w, ok := f.workflows[owner+"/"+name]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return w, nil
}

func (f *fakeGitHub) ListWorkflowRuns(ctx context.Context, owner, name string, workflowID int64) ([]*workflow.Run, error) {
	return f.runs[workflowID], nil
}

type fakeFactory struct {
	client *fakeGitHub
	tokens []string
}

func (f *fakeFactory) ForToken(accessToken string) repo.GitHubClient {
	f.tokens = append(f.tokens, accessToken)
	return f.client
}

type fakeExchanger struct {
	token string
	err   error
}

func (f *fakeExchanger) ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (string, error) {
	return f.token, f.err
}

type plainSessions struct{}

func (plainSessions) Issue(accessToken string) (string, error) {
	return "session:" + accessToken, nil
}

func (plainSessions) Parse(session string) (string, error) {
	if !strings.HasPrefix(session, "session:") {
		return "", errors.New("invalid session")
	}
	return strings.TrimPrefix(session, "session:"), nil
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

type testServer struct {
	router    *gin.Engine
	cfg       *config.Config
	github    *fakeFactory
	exchanger *fakeExchanger
	storage   *persistence.MemoryStorage
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 5000},
		GitHub: config.GitHubConfig{
			ClientID:     "client",
			ClientSecret: "secret",
			AuthorizeURL: "https://github.com/login/oauth/authorize",
			TokenURL:     "https://github.com/login/oauth/access_token",
			Scopes:       []string{"repo", "read:user", "workflow"},
		},
		Session: config.SessionConfig{
			TTL:              time.Hour,
			TokenCookieName:  "github_token",
			StateCookieName:  "oauth_state",
			ClientCookieName: "gitactdash_client",
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, pinger handlers.Pinger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		cfg:       cfg,
		github:    &fakeFactory{client: &fakeGitHub{}},
		exchanger: &fakeExchanger{token: "gho_abc"},
		storage:   persistence.NewMemoryStorage(),
	}

	authService := service.NewAuthService(cfg.GitHub, ts.exchanger, plainSessions{})
	preferences := service.NewPreferencesService(service.NewLocalStorageService(ts.storage))

	ts.router = gin.New()
	ts.router.Use(middleware.ClientIdentity(cfg.Session.ClientCookieName, false))
	handlers.RegisterRoutes(ts.router, handlers.Routes{
		Health:      handlers.NewHealthHandler(pinger, "memory"),
		Auth:        handlers.NewAuthHandler(authService, cfg),
		Repository:  handlers.NewRepositoryHandler(ts.github),
		Preferences: handlers.NewPreferencesHandler(preferences),
		RequireAuth: middleware.NewAuthMiddleware(authService, cfg.Session.TokenCookieName).RequireAuth(),
	})
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func signedIn(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "github_token", Value: "session:gho_abc"})
	return req
}

func knownBrowser(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "gitactdash_client", Value: knownClient})
	return req
}

type envelope struct {
	Data     json.RawMessage `json:"data"`
	Warnings []string        `json:"warnings"`
	Error    string          `json:"error"`
	Message  string          `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	ts = newTestServer(t, testConfig(), failingPinger{})
	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	require.Equal(t, http.StatusFound, w.Code)
	state := cookieNamed(w, "oauth_state")
	require.NotNil(t, state)
	assert.True(t, state.HttpOnly)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", location.Host)
	q := location.Query()
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "http://localhost:5000/api/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "repo read:user workflow", q.Get("scope"))
	assert.Equal(t, state.Value, q.Get("state"))
}

func TestLoginNotConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.GitHub.ClientID = ""
	ts := newTestServer(t, cfg, nil)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/auth/login", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "oauth_not_configured", decode(t, w).Error)
}

func TestCallback(t *testing.T) {
	callback := func(query, state string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?"+query, nil)
		if state != "" {
			req.AddCookie(&http.Cookie{Name: "oauth_state", Value: state})
		}
		return req
	}

	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t, testConfig(), nil)
		w := ts.do(callback("code=abc&state=s1", "s1"))

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
		session := cookieNamed(w, "github_token")
		require.NotNil(t, session)
		assert.Equal(t, "session:gho_abc", session.Value)
		assert.True(t, session.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
		assert.Equal(t, 3600, session.MaxAge)
	})

	tests := []struct {
		name        string
		query       string
		state       string
		exchangeErr error
		wantStatus  int
		wantMessage string
	}{
		{"missing code", "state=s1", "s1", nil, http.StatusBadRequest, "Missing code"},
		{"state mismatch", "code=abc&state=other", "s1", nil, http.StatusBadRequest, service.ErrStateMismatch.Error()},
		{"no state cookie", "code=abc&state=s1", "", nil, http.StatusBadRequest, service.ErrStateMismatch.Error()},
		{"no access token", "code=abc&state=s1", "s1", oauth.ErrNoAccessToken, http.StatusBadRequest, "No access_token returned"},
		{"github error code", "code=abc&state=s1", "s1", fmt.Errorf("%w: %s", oauth.ErrNoAccessToken, "bad_verification_code"), http.StatusBadRequest, "No access_token returned"},
		{"exchange failure", "code=abc&state=s1", "s1", errors.New("connection reset"), http.StatusBadGateway, "connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, testConfig(), nil)
			ts.exchanger.err = tt.exchangeErr

			w := ts.do(callback(tt.query, tt.state))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMessage, decode(t, w).Message)
			assert.Nil(t, cookieNamed(w, "github_token"))
		})
	}
}

func TestLogoutAndStatus(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/auth/status", nil))
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	w = ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)))
	assert.JSONEq(t, `{"authenticated":true}`, w.Body.String())

	w = ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	cleared := cookieNamed(w, "github_token")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestListRepositories(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	ts.github.client.repos = []*repo.Repository{
		{ID: 2, Name: "zeta", FullName: "octo/zeta", OwnerLogin: "octo", OwnerType: repo.OwnerTypeUser},
		{ID: 1, Name: "alpha", FullName: "octo/alpha", OwnerLogin: "octo", OwnerType: repo.OwnerTypeUser},
	}

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/repositories", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, ts.github.tokens)

	w = ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/repositories?sort=name&ascending=false", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"gho_abc"}, ts.github.tokens)

	var repos []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &repos))
	require.Len(t, repos, 2)
	assert.Equal(t, "zeta", repos[0].Name)
	assert.Equal(t, "personal", repos[0].Type)

	w = ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/repositories?type=forks", nil)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_filter", decode(t, w).Error)
}

func TestListRepositoriesUpstreamFailure(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	ts.github.client.reposErr = errors.New("boom")

	w := ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/repositories", nil)))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	assert.Equal(t, "github_error", body.Error)
	assert.Equal(t, "Unexpected error while fetching repositories: boom", body.Message)
}

func TestWorkflowRoutes(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	ts.github.client.workflows = map[string][]*workflow.Workflow{
		"octo/app": {{ID: 7, Name: "CI", Path: ".github/workflows/ci.yml", State: "active"}},
	}
	ts.github.client.runs = map[int64][]*workflow.Run{
		7: {{ID: 70, RunNumber: 3, Status: workflow.StatusCompleted, Conclusion: workflow.ConclusionSuccess}},
	}

	w := ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/repositories/octo/app/workflows", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"name":"CI"`)

	w = ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/repositories/octo/app/workflows/7/runs/latest", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"display_status":"success"`)

	w = ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/repositories/octo/app/workflows/8/runs/latest", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", string(decode(t, w).Data))

	w = ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/repositories/octo/app/workflows/abc/runs/latest", nil)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/repositories/octo/app/summary", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"latest_run":{"id":70`)

	w = ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/repositories/octo/gone/workflows", nil)))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Repository 'octo/gone' not found or you don't have access to it.", decode(t, w).Message)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	ts.github.client.workflows = map[string][]*workflow.Workflow{
		"octo/app": {{ID: 7, Name: "CI"}},
	}

	w := ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?repo=octo/app&repo=octo/gone", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Contains(t, string(body.Data), `"repository":"octo/app"`)
	assert.NotContains(t, string(body.Data), "octo/gone")
	require.Len(t, body.Warnings, 1)
	assert.Contains(t, body.Warnings[0], "Failed to load workflows for 'octo/gone'")

	w = ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?repo=noslash", nil)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_repository", decode(t, w).Error)
}

func TestDashboardRejectsTooManyRepositories(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	query := url.Values{}
	for i := 0; i <= handlers.MaxDashboardRepositories; i++ {
		query.Add("repo", fmt.Sprintf("octo/repo-%d", i))
	}
	w := ts.do(signedIn(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?"+query.Encode(), nil)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "invalid_repository", body.Error)
	assert.Equal(t, "At most 50 repositories can be shown at once", body.Message)
	assert.Empty(t, ts.github.tokens, "no GitHub client is built for a rejected request")
}

func TestPreferencesRequireIdentifiedClient(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "client_unidentified", body.Error)
	assert.Equal(t, service.MessageInteropUnavailable, body.Message)
	assert.NotNil(t, cookieNamed(w, "gitactdash_client"))
}

func TestPreferencesRecoverFromUnreadableValue(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)
	require.NoError(t, ts.storage.SetItem(context.Background(), knownClient, service.PreferencesKey, `{not json`))

	w := ts.do(knownBrowser(httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.JSONEq(t, `{"theme":"light","sidebar_collapsed":false}`, string(body.Data))
	assert.Equal(t, []string{service.MessageUnreadablePreferences}, body.Warnings)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/preferences", strings.NewReader(`{"theme":"dark","sidebar_collapsed":true}`))
	req.Header.Set("Content-Type", "application/json")
	w = ts.do(knownBrowser(req))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"theme":"dark","sidebar_collapsed":true}`, string(decode(t, w).Data))

	w = ts.do(knownBrowser(httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.JSONEq(t, `{"theme":"dark","sidebar_collapsed":true}`, string(body.Data))
	assert.Empty(t, body.Warnings)
}

func TestPreferences(t *testing.T) {
	ts := newTestServer(t, testConfig(), nil)

	w := ts.do(knownBrowser(httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"light","sidebar_collapsed":false}`, string(decode(t, w).Data))

	w = ts.do(knownBrowser(httptest.NewRequest(http.MethodPost, "/api/v1/preferences/sidebar/toggle", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"light","sidebar_collapsed":true}`, string(decode(t, w).Data))

	w = ts.do(knownBrowser(httptest.NewRequest(http.MethodPost, "/api/v1/preferences/theme/toggle", nil)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"dark","sidebar_collapsed":true}`, string(decode(t, w).Data))

	put := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/preferences", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return ts.do(knownBrowser(req))
	}

	w = put(`{"theme":"Light","sidebar_collapsed":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"light","sidebar_collapsed":false}`, string(decode(t, w).Data))

	w = put(`{"theme":"sepia","sidebar_collapsed":false}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_theme", decode(t, w).Error)

	w = put(`{"theme":"dark"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decode(t, w).Error)

	w = ts.do(knownBrowser(httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil)))
	assert.JSONEq(t, `{"theme":"light","sidebar_collapsed":false}`, string(decode(t, w).Data))
}
