package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Dataset (study index + per-study spreadsheet files)
	Dataset DatasetConfig

	// Database (optional, load snapshot history)
	Database DatabaseConfig

	// Redis (optional, study data cache)
	Redis RedisConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool

	// API rate limiting (requests per second, 0 disables)
	RateLimitRPS   float64
	RateLimitBurst int
}

// DatasetConfig describes where study files come from
type DatasetConfig struct {
	Driver    string // fs, s3, http
	Root      string // fs: directory, http: base URL
	IndexFile string // relative to Root
	Watch     bool   // fs only: invalidate the index cache on changes
	Profile   string // optional YAML file tuning role resolution

	// Overrides pins a role to a file name for every study ("sites=EDC.xlsx,sae=SAE.xlsx").
	Overrides map[string]string

	S3 S3Config
}

// S3Config holds the S3-compatible bucket settings
type S3Config struct {
	Bucket    string
	Region    string
	Prefix    string // key prefix of the dataset inside the bucket
	Endpoint  string
	PathStyle bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	TTL      time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether snapshot persistence is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// SchedulerConfig holds cron expressions for background jobs
type SchedulerConfig struct {
	IndexRefresh   string // six-field cron (seconds first)
	SessionRefresh string // empty disables
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Dataset: DatasetConfig{
			Driver:    strings.ToLower(getEnv("DATASET_DRIVER", "fs")),
			Root:      getEnv("DATASET_ROOT", "./dataset"),
			IndexFile: getEnv("DATASET_INDEX_FILE", "study-index.json"),
			Watch:     getEnvAsBool("DATASET_WATCH", false),
			Profile:   getEnv("DATASET_PROFILE", ""),
			Overrides: getEnvAsMap("DATASET_ROLE_OVERRIDES"),
			S3: S3Config{
				Bucket:    getEnv("DATASET_S3_BUCKET", ""),
				Region:    getEnv("DATASET_S3_REGION", "us-east-1"),
				Prefix:    getEnv("DATASET_S3_PREFIX", ""),
				Endpoint:  getEnv("DATASET_S3_ENDPOINT", ""),
				PathStyle: getEnvAsBool("DATASET_S3_PATH_STYLE", false),
			},
		},

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			TTL:      getEnvAsDuration("REDIS_TTL", "10m"),
		},

		Scheduler: SchedulerConfig{
			IndexRefresh:   getEnv("INDEX_REFRESH_SCHEDULE", "0 */15 * * * *"),
			SessionRefresh: getEnv("SESSION_REFRESH_SCHEDULE", ""),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 100),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Dataset.Driver {
	case "fs", "http":
		if c.Dataset.Root == "" {
			return fmt.Errorf("DATASET_ROOT is required for %s driver", c.Dataset.Driver)
		}
	case "s3":
		if c.Dataset.S3.Bucket == "" {
			return fmt.Errorf("DATASET_S3_BUCKET is required for s3 driver")
		}
	default:
		return fmt.Errorf("DATASET_DRIVER must be one of: fs, s3, http")
	}

	if c.Dataset.IndexFile == "" {
		return fmt.Errorf("DATASET_INDEX_FILE must not be empty")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsMap parses "k1=v1,k2=v2". Malformed pairs are skipped.
func getEnvAsMap(key string) map[string]string {
	out := make(map[string]string)
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return out
	}

	for _, pair := range strings.Split(valueStr, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}

	return out
}
