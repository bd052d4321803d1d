package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoAccessToken is returned when GitHub answers the exchange without an
// access_token, for example on a stale or reused code
var ErrNoAccessToken = errors.New("No access_token returned")

// Client exchanges OAuth authorization codes for GitHub access tokens
type Client struct {
	httpClient *http.Client
	tokenURL   string
}

// NewClient creates a new token exchange client
func NewClient(tokenURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokenURL: tokenURL,
	}
}

// TokenResponse is the JSON body of GitHub's access token endpoint
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode posts the code together with the application credentials and
// returns the access token
func (c *Client) ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (string, error) {
	form := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"code":          {code},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("github token endpoint returned status %d: %w", resp.StatusCode, err)
	}

	if token.AccessToken == "" {
		if token.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrNoAccessToken, token.Error)
		}
		return "", ErrNoAccessToken
	}

	return token.AccessToken, nil
}
