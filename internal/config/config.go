package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2/github"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	GitHub   GitHubConfig
	Session  SessionConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	UseHTTPS       bool
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	AllowedOrigins []string
}

// GitHubConfig holds the GitHub OAuth application and API settings
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	AuthorizeURL string
	TokenURL     string
	APIBaseURL   string
	Scopes       []string
}

// SessionConfig holds settings for the session cookie
type SessionConfig struct {
	SigningSecret    string
	EncryptionKey    string
	TTL              time.Duration
	TokenCookieName  string
	StateCookieName  string
	ClientCookieName string
}

// DatabaseConfig holds database configuration. An empty DSN selects the
// in-memory preference store.
type DatabaseConfig struct {
	Driver   string
	DSN      string
	MaxConns int
	MinConns int
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := FromEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv builds a Config from the current environment without validating it
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 5000),
			Host:           getEnv("SERVER_HOST", "localhost"),
			UseHTTPS:       getEnvAsBool("SERVER_USE_HTTPS", false),
			ReadTimeout:    getEnvAsInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout:   getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:    getEnvAsInt("SERVER_IDLE_TIMEOUT", 120),
			AllowedOrigins: getEnvAsSlice("SERVER_ALLOWED_ORIGINS", ",", nil),
		},
		GitHub: GitHubConfig{
			ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
			AuthorizeURL: getEnv("GITHUB_AUTHORIZE_URL", github.Endpoint.AuthURL),
			TokenURL:     getEnv("GITHUB_TOKEN_URL", github.Endpoint.TokenURL),
			APIBaseURL:   getEnv("GITHUB_API_URL", ""),
			Scopes:       getEnvAsSlice("GITHUB_SCOPES", ",", []string{"repo", "read:user", "workflow"}),
		},
		Session: SessionConfig{
			SigningSecret:    getEnv("SESSION_SIGNING_SECRET", ""),
			EncryptionKey:    getEnv("SESSION_ENCRYPTION_KEY", ""),
			TTL:              getEnvAsDuration("SESSION_TTL", 8*time.Hour),
			TokenCookieName:  getEnv("SESSION_TOKEN_COOKIE", "github_token"),
			StateCookieName:  getEnv("SESSION_STATE_COOKIE", "oauth_state"),
			ClientCookieName: getEnv("SESSION_CLIENT_COOKIE", "gitactdash_client"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Validate validates the configuration. Missing OAuth credentials are not an
// error here: the login endpoints report them to the user instead.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	if c.Session.SigningSecret == "" {
		return fmt.Errorf("SESSION_SIGNING_SECRET is required")
	}
	if c.Session.EncryptionKey == "" {
		return fmt.Errorf("SESSION_ENCRYPTION_KEY is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Scheme returns the URL scheme the server is reachable on
func (c *Config) Scheme() string {
	if c.Server.UseHTTPS {
		return "https"
	}
	return "http"
}

// CallbackURL returns the OAuth redirect URI registered with GitHub
func (c *Config) CallbackURL() string {
	return fmt.Sprintf("%s://%s/api/auth/callback", c.Scheme(), c.GetServerAddress())
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getEnvAsBool gets an environment variable as boolean with a fallback value
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getEnvAsDuration gets an environment variable as time.Duration with a fallback value
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvAsSlice gets an environment variable as slice with a fallback value
func getEnvAsSlice(key, separator string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, separator)
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
