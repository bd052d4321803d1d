package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gitactdash/internal/infrastructure/encryption"
)

const issuer = "gitactdash"

// ErrInvalidSession is returned for missing, expired, forged or undecryptable
// session tokens
var ErrInvalidSession = errors.New("invalid session")

// Claims carries the sealed GitHub access token
type Claims struct {
	SealedToken string `json:"tok"`
	jwt.RegisteredClaims
}

// Manager issues and verifies the signed session cookie value. The GitHub
// access token is encrypted with the token id as associated data, so a sealed
// token cannot be moved into another session.
type Manager struct {
	secret []byte
	ttl    time.Duration
	sealer *encryption.EncryptionService
	now    func() time.Time
}

// NewManager creates a session manager
func NewManager(signingSecret string, ttl time.Duration, sealer *encryption.EncryptionService) (*Manager, error) {
	if signingSecret == "" {
		return nil, fmt.Errorf("session signing secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session TTL must be positive")
	}
	return &Manager{
		secret: []byte(signingSecret),
		ttl:    ttl,
		sealer: sealer,
		now:    time.Now,
	}, nil
}

// TTL returns how long issued sessions stay valid
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue wraps accessToken into a signed HS256 session token
func (m *Manager) Issue(accessToken string) (string, error) {
	if accessToken == "" {
		return "", fmt.Errorf("access token is required")
	}

	id := uuid.NewString()
	sealed, err := m.sealer.Encrypt(accessToken, id)
	if err != nil {
		return "", fmt.Errorf("failed to seal access token: %w", err)
	}

	now := m.now()
	claims := Claims{
		SealedToken: sealed,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Parse verifies a session token and returns the GitHub access token inside it
func (m *Manager) Parse(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidSession
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	accessToken, err := m.sealer.Decrypt(claims.SealedToken, claims.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return accessToken, nil
}
