package config

import (
	"os"
	"strings"
	"time"
)

// Insecure fallbacks used when secrets are not configured. Fine for a demo
// deployment, not for production.
const (
	DefaultJWTSecret     = "dev-jwt-secret-change-me"
	DefaultSessionSecret = "dev-session-secret-change-me"
)

// Config holds all service configuration loaded from environment variables.
// Every field has a fallback so startup never fails on a missing variable.
type Config struct {
	Port     string
	LogLevel string

	JWTSecret     string
	TokenTTL      time.Duration
	SessionSecret string
	SessionTTL    time.Duration

	MongoURI      string
	MongoDB       string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	DatasetPath   string
	DatasetObject string
	SeedUsersPath string

	BLSAPIKey   string
	BLSBaseURL  string
	ONetAPIKey  string
	ONetBaseURL string

	CORSOrigins []string
}

func Load() *Config {
	return &Config{
		Port:     getenv("PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		JWTSecret:     getenv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:      getduration("TOKEN_TTL", 7*24*time.Hour),
		SessionSecret: getenv("SESSION_SECRET", DefaultSessionSecret),
		SessionTTL:    getduration("SESSION_TTL", 24*time.Hour),

		MongoURI:      getenv("MONGODB_URI", ""),
		MongoDB:       getenv("MONGODB_DB", "hi_jobs"),
		PostgresDSN:   getenv("POSTGRES_DSN", ""),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "datasets"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",

		DatasetPath:   getenv("DATASET_PATH", "data/health_informatics_jobs.csv"),
		DatasetObject: getenv("DATASET_OBJECT", "health_informatics_jobs.csv"),
		SeedUsersPath: getenv("SEED_USERS_PATH", ""),

		BLSAPIKey:   getenv("BLS_API_KEY", ""),
		BLSBaseURL:  getenv("BLS_BASE_URL", "https://api.bls.gov/publicAPI/v2"),
		ONetAPIKey:  getenv("ONET_API_KEY", ""),
		ONetBaseURL: getenv("ONET_BASE_URL", "https://api-v2.onetcenter.org"),

		CORSOrigins: getlist("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
	}
}

// Insecure lists the settings that fell back to a demo default or a mocked
// backend, so main can warn about them.
func (c *Config) Insecure() []string {
	var out []string
	if c.JWTSecret == DefaultJWTSecret {
		out = append(out, "JWT_SECRET")
	}
	if c.SessionSecret == DefaultSessionSecret {
		out = append(out, "SESSION_SECRET")
	}
	if c.MongoURI == "" {
		out = append(out, "MONGODB_URI")
	}
	if c.BLSAPIKey == "" {
		out = append(out, "BLS_API_KEY")
	}
	if c.ONetAPIKey == "" {
		out = append(out, "ONET_API_KEY")
	}
	return out
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getlist(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
