package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: empty URL keeps snapshots in memory)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Verdict engine defaults
	Engine EngineConfig

	// API
	API APIConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Upstream analysis service (optional: empty URL disables imports)
	Upstream UpstreamConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
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

// Enabled reports whether a PostgreSQL snapshot store is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// EngineConfig holds the caller-side defaults passed into every evaluation.
// The engine itself never reads these; handlers and commands do.
type EngineConfig struct {
	RuleSetPath            string  // empty: built-in extended rule set
	DefaultTransactionCost float64 // fraction per trade (0.001 = 0.1%)
	DefaultAccountSize     float64
	VerdictCacheTTL        time.Duration
}

// APIConfig holds HTTP API limits
type APIConfig struct {
	RateLimit  int           // requests per window per client
	RateWindow time.Duration
}

// SchedulerConfig holds background job schedules
type SchedulerConfig struct {
	RankingSchedule string // cron expression with seconds field
	RankingLimit    int
}

// UpstreamConfig holds the snapshot import source
type UpstreamConfig struct {
	URL            string // GET returns a JSON array of snapshots
	Timeout        time.Duration
	MaxRetries     int
	RateLimit      int // requests per minute
	ImportSchedule string
}

// Enabled reports whether snapshot imports are configured
func (u UpstreamConfig) Enabled() bool {
	return u.URL != ""
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Engine: EngineConfig{
			RuleSetPath:            getEnv("RULESET_PATH", ""),
			DefaultTransactionCost: getEnvAsFloat("DEFAULT_TRANSACTION_COST", 0.001),
			DefaultAccountSize:     getEnvAsFloat("DEFAULT_ACCOUNT_SIZE", 10000),
			VerdictCacheTTL:        getEnvAsDuration("VERDICT_CACHE_TTL", "10m"),
		},

		API: APIConfig{
			RateLimit:  getEnvAsInt("API_RATE_LIMIT", 120),
			RateWindow: getEnvAsDuration("API_RATE_WINDOW", "1m"),
		},

		Scheduler: SchedulerConfig{
			RankingSchedule: getEnv("RANKING_SCHEDULE", "0 */15 * * * *"),
			RankingLimit:    getEnvAsInt("RANKING_LIMIT", 50),
		},

		Upstream: UpstreamConfig{
			URL:            getEnv("UPSTREAM_URL", ""),
			Timeout:        getEnvAsDuration("UPSTREAM_TIMEOUT", "30s"),
			MaxRetries:     getEnvAsInt("UPSTREAM_MAX_RETRIES", 3),
			RateLimit:      getEnvAsInt("UPSTREAM_RATE_LIMIT", 60),
			ImportSchedule: getEnv("IMPORT_SCHEDULE", "0 */5 * * * *"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Engine.DefaultTransactionCost < 0 || c.Engine.DefaultTransactionCost >= 0.1 {
		return fmt.Errorf("DEFAULT_TRANSACTION_COST must be in [0, 0.1)")
	}

	if c.Engine.DefaultAccountSize <= 0 {
		return fmt.Errorf("DEFAULT_ACCOUNT_SIZE must be > 0")
	}

	if c.API.RateLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT must be > 0")
	}

	if c.Upstream.Enabled() && c.Upstream.RateLimit <= 0 {
		return fmt.Errorf("UPSTREAM_RATE_LIMIT must be > 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

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
