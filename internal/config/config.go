package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"votely/internal/model"
)

// OAuthCredentials is a client id/secret pair for one OAuth provider.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
}

// Configured reports whether both halves of the pair are present.
func (c OAuthCredentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Fallback signing secrets. Anyone can forge tokens signed with these.
const (
	defaultJWTSecret     = "change-me"
	defaultSessionSecret = "secret_key"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	DBDriver      string
	DBDSN         string
	ResetDB       bool
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	SessionSecret string
	PublicURL     string
	Google        OAuthCredentials
	LinkedIn      OAuthCredentials
	SwaggerHost   string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "5000")
	return &Config{
		ServerPort:    port,
		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:         getEnv("DB_DSN", "votely.db"),
		ResetDB:       getEnvBool("RESET_DB", false),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),
		PublicURL:     strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:"+port), "/"),
		Google: OAuthCredentials{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		},
		LinkedIn: OAuthCredentials{
			ClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
			ClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		},
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

// DefaultSecrets lists the environment variables whose secret is still the
// built-in fallback.
func (c *Config) DefaultSecrets() []string {
	var keys []string
	if c.JWTSecret == defaultJWTSecret {
		keys = append(keys, "JWT_SECRET")
	}
	if c.SessionSecret == defaultSessionSecret {
		keys = append(keys, "SESSION_SECRET")
	}
	return keys
}

// OAuth returns the credentials for a provider and whether they are usable.
func (c *Config) OAuth(p model.Provider) (OAuthCredentials, bool) {
	var creds OAuthCredentials
	switch p {
	case model.ProviderGoogle:
		creds = c.Google
	case model.ProviderLinkedIn:
		creds = c.LinkedIn
	default:
		return OAuthCredentials{}, false
	}
	return creds, creds.Configured()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
