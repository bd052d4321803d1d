package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitactdash/internal/infrastructure/encryption"
)

func newTestManager(t *testing.T, secret string) *Manager {
	t.Helper()
	key, err := encryption.GenerateKey()
	require.NoError(t, err)
	sealer, err := encryption.NewEncryptionService(key)
	require.NoError(t, err)
	m, err := NewManager(secret, time.Hour, sealer)
	require.NoError(t, err)
	return m
}

func TestIssueAndParse(t *testing.T) {
	m := newTestManager(t, "signing-secret")

	token, err := m.Issue("gho_abc")
	require.NoError(t, err)
	assert.NotContains(t, token, "gho_abc")

	got, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "gho_abc", got)
}

func TestParseRejects(t *testing.T) {
	m := newTestManager(t, "signing-secret")
	token, err := m.Issue("gho_abc")
	require.NoError(t, err)

	expired := newTestManager(t, "signing-secret")
	expired.sealer = m.sealer
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("gho_abc")
	require.NoError(t, err)

	other := newTestManager(t, "other-secret")
	other.sealer = m.sealer

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		m     *Manager
	}{
		{"empty", "", m},
		{"garbage", "not-a-jwt", m},
		{"expired", old, m},
		{"wrong secret", token, other},
		{"unsigned", unsigned, m},
		{"foreign encryption key", token, withSecret(newTestManager(t, "x"), "signing-secret")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.m.Parse(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidSession), "got %v", err)
		})
	}
}

func withSecret(m *Manager, secret string) *Manager {
	m.secret = []byte(secret)
	return m
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager("", time.Hour, nil)
	assert.Error(t, err)
	_, err = NewManager("secret", 0, nil)
	assert.Error(t, err)
}
