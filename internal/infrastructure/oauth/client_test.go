package oauth_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitactdash/internal/infrastructure/oauth"
)

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))

		switch r.PostForm.Get("code") {
		case "good":
			fmt.Fprint(w, `{"access_token": "gho_123", "token_type": "bearer", "scope": "repo"}`)
		case "stale":
			fmt.Fprint(w, `{"error": "bad_verification_code", "error_description": "The code passed is incorrect or expired."}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `<html>bad gateway</html>`)
		}
	}))
	defer server.Close()

	client := oauth.NewClient(server.URL)
	ctx := context.Background()

	tests := []struct {
		name      string
		code      string
		want      string
		wantNoTok bool
		wantErr   bool
	}{
		{"token returned", "good", "gho_123", false, false},
		{"error body", "stale", "", true, true},
		{"non json body", "broken", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.ExchangeCode(ctx, "client", "secret", tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExchangeCode() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantNoTok, errors.Is(err, oauth.ErrNoAccessToken))
		})
	}
}
