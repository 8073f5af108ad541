package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort       string
	LogLevel      string
	ServiceName   string
	PublicSiteURL string

	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIBaseURL        string
	OpenAITimeoutSeconds int
	AnalysisTemperature  float64
	AnalysisMaxTokens    int
	ComparisonMaxTokens  int

	DatabaseURL string

	StorageBackend string
	StoragePath    string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	NATSURL     string
	NATSSubject string

	APIRateLimitRPS   float64
	APIRateLimitBurst int

	// AdminAPIToken gates the analysis history routes. Empty disables them.
	AdminAPIToken string

	BreakerEnabled            bool
	BreakerMinRequests        int
	BreakerFailureRatio       float64
	BreakerOpenTimeoutSeconds int

	WorkerMetricsPort string
}

// Load reads the optional env file named by ENV_FILE (default .env) and then
// the process environment. Variables already set in the environment win.
func Load() (Config, error) {
	if err := loadEnvFile(mustEnv("ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	return Config{
		APIPort:       mustEnv("API_PORT", "8080"),
		LogLevel:      mustEnv("LOG_LEVEL", "info"),
		ServiceName:   mustEnv("SERVICE_NAME", "contract-checked"),
		PublicSiteURL: mustEnv("PUBLIC_SITE_URL", ""),

		OpenAIAPIKey:         mustEnv("OPENAI_API_KEY", ""),
		OpenAIModel:          mustEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:        mustEnv("OPENAI_BASE_URL", ""),
		OpenAITimeoutSeconds: mustEnvInt("OPENAI_TIMEOUT_SECONDS", 120),
		AnalysisTemperature:  mustEnvFloat("ANALYSIS_TEMPERATURE", 0.1),
		AnalysisMaxTokens:    mustEnvInt("ANALYSIS_MAX_TOKENS", 2000),
		ComparisonMaxTokens:  mustEnvInt("COMPARISON_MAX_TOKENS", 2500),

		DatabaseURL: mustEnv("DATABASE_URL", ""),

		StorageBackend: strings.ToLower(mustEnv("STORAGE_BACKEND", "localfs")),
		StoragePath:    mustEnv("STORAGE_PATH", "./data/contracts"),
		MinioEndpoint:  mustEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: mustEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: mustEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    mustEnv("MINIO_BUCKET", "contracts"),
		MinioRegion:    mustEnv("MINIO_REGION", ""),
		MinioUseSSL:    mustEnvBool("MINIO_USE_SSL", false),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "contracts.analysis.completed"),

		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", 0.5),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 5),

		AdminAPIToken: strings.TrimSpace(mustEnv("ADMIN_API_TOKEN", "")),

		BreakerEnabled:            mustEnvBool("BREAKER_ENABLED", true),
		BreakerMinRequests:        mustEnvInt("BREAKER_MIN_REQUESTS", 5),
		BreakerFailureRatio:       mustEnvFloat("BREAKER_FAILURE_RATIO", 0.6),
		BreakerOpenTimeoutSeconds: mustEnvInt("BREAKER_OPEN_TIMEOUT_SECONDS", 30),

		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),
	}, nil
}

// PersistenceEnabled reports whether analyses are recorded at all.
func (c Config) PersistenceEnabled() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

func (c Config) EventsEnabled() bool {
	return strings.TrimSpace(c.NATSURL) != ""
}

func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
