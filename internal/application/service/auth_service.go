package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"gitactdash/internal/config"
	"gitactdash/internal/logging"
)

var (
	// ErrMissingCode is returned when the callback carries no code
	ErrMissingCode = errors.New("Missing code")
	// ErrOAuthNotConfigured is returned when the OAuth application credentials are absent
	ErrOAuthNotConfigured = errors.New("GitHub OAuth ClientId or ClientSecret are not configured. Please set GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET.")
	// ErrStateMismatch is returned when the callback state does not match the one issued at login
	ErrStateMismatch = errors.New("OAuth state mismatch. Please sign in again.")
)

// TokenExchanger trades an authorization code for an access token
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (string, error)
}

// SessionCodec wraps an access token into the session cookie value and back
type SessionCodec interface {
	Issue(accessToken string) (string, error)
	Parse(session string) (string, error)
}

// AuthService drives the GitHub OAuth web flow
type AuthService struct {
	cfg       config.GitHubConfig
	exchanger TokenExchanger
	sessions  SessionCodec
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.GitHubConfig, exchanger TokenExchanger, sessions SessionCodec) *AuthService {
	return &AuthService{cfg: cfg, exchanger: exchanger, sessions: sessions}
}

// LoginRedirect returns the GitHub authorization URL and the state value the
// callback must echo
func (s *AuthService) LoginRedirect(callbackURL string) (string, string, error) {
	if s.cfg.ClientID == "" {
		return "", "", ErrOAuthNotConfigured
	}

	state := uuid.NewString()
	conf := &oauth2.Config{
		ClientID:    s.cfg.ClientID,
		RedirectURL: callbackURL,
		Scopes:      s.cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.cfg.AuthorizeURL,
			TokenURL: s.cfg.TokenURL,
		},
	}
	return conf.AuthCodeURL(state), state, nil
}

// CompleteLogin validates the callback, exchanges the code and returns the
// session cookie value
func (s *AuthService) CompleteLogin(ctx context.Context, code, state, expectedState string) (string, error) {
	ctx, log := logging.ForServiceOperation(ctx, "AuthService", "CompleteLogin")

	if strings.TrimSpace(code) == "" {
		return "", ErrMissingCode
	}
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return "", ErrOAuthNotConfigured
	}
	if expectedState == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expectedState)) != 1 {
		log.Warn("OAuth state mismatch")
		return "", ErrStateMismatch
	}

	accessToken, err := s.exchanger.ExchangeCode(ctx, s.cfg.ClientID, s.cfg.ClientSecret, code)
	if err != nil {
		log.WithError(err).Warn("Code exchange failed")
		return "", err
	}

	session, err := s.sessions.Issue(accessToken)
	if err != nil {
		return "", fmt.Errorf("failed to issue session: %w", err)
	}

	log.Info("User signed in")
	return session, nil
}

// AccessToken extracts the GitHub access token from a session cookie value
func (s *AuthService) AccessToken(session string) (string, error) {
	return s.sessions.Parse(session)
}

// IsAuthenticated reports whether session holds a valid access token
func (s *AuthService) IsAuthenticated(session string) bool {
	token, err := s.sessions.Parse(session)
	return err == nil && strings.TrimSpace(token) != ""
}
