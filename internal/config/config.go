// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Server   ServerConfig
	Cache    CacheConfig
	GitHub   GitHubConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	Path string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        // default: 8080
	ReadTimeout    time.Duration // default: 15s
	WriteTimeout   time.Duration // default: 15s
	IdleTimeout    time.Duration // default: 60s
	AllowedOrigins []string      // CORS origins, default: *
	PublicRPS      float64       // per-IP request rate on public routes, 0 disables
}

// CacheConfig holds taxonomy cache configuration.
type CacheConfig struct {
	// Dir is the badger directory. Empty keeps the cache in memory.
	Dir           string
	CategoriesTTL time.Duration
	TagsTTL       time.Duration
}

// GitHubConfig holds GitHub API and stats sync configuration.
type GitHubConfig struct {
	Token   string
	BaseURL string

	// SyncInterval is the period of the scheduled stats sync. Zero disables it.
	SyncInterval    time.Duration
	SyncConcurrency int
	MaxRetries      int
	RetryBackoff    time.Duration

	RateLimit float64 // requests per second
	RateBurst int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return LoadConfigFromArgs(flag.CommandLine, os.Args[1:])
}

// LoadConfigFromArgs is LoadConfig with an explicit flag set and argument list.
func LoadConfigFromArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dbPath := fs.String("db-path", "", "Path to the SQLite database file")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	allowedOrigins := fs.String("allowed-origins", "", "Comma separated CORS origins (default: *)")

	cacheDir := fs.String("cache-dir", "", "Directory for the taxonomy cache (default: in-memory)")

	githubToken := fs.String("github-token", "", "GitHub API token")
	syncInterval := fs.String("github-sync-interval", "", "Interval between GitHub stats syncs, 0 disables (default: 24h)")
	syncConcurrency := fs.String("github-sync-concurrency", "", "Concurrent GitHub fetches (default: 4)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// A missing .env file is fine. godotenv.Load never overrides variables
	// that are already set in the process environment.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Path: getConfigValue(*dbPath, "DB_PATH", ""),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*allowedOrigins, "ALLOWED_ORIGINS", "*")),
			PublicRPS:      getFloatConfigValue("", "PUBLIC_RATE_LIMIT", 20),
		},
		Cache: CacheConfig{
			Dir: getConfigValue(*cacheDir, "CACHE_DIR", ""),
		},
		GitHub: GitHubConfig{
			Token:           getConfigValue(*githubToken, "GITHUB_TOKEN", ""),
			BaseURL:         strings.TrimRight(getConfigValue("", "GITHUB_API_URL", "https://api.github.com"), "/"),
			SyncConcurrency: getIntConfigValue(*syncConcurrency, "GITHUB_SYNC_CONCURRENCY", 4),
			MaxRetries:      getIntConfigValue("", "GITHUB_MAX_RETRIES", 3),
			RateLimit:       getFloatConfigValue("", "GITHUB_RATE_LIMIT", 1),
			RateBurst:       getIntConfigValue("", "GITHUB_RATE_BURST", 5),
		},
	}

	durations := []struct {
		dst      *time.Duration
		flag     string
		envKey   string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Cache.CategoriesTTL, "", "CACHE_CATEGORIES_TTL", "24h"},
		{&cfg.Cache.TagsTTL, "", "CACHE_TAGS_TTL", "6h"},
		{&cfg.GitHub.SyncInterval, *syncInterval, "GITHUB_SYNC_INTERVAL", "24h"},
		{&cfg.GitHub.RetryBackoff, "", "GITHUB_RETRY_BACKOFF", "500ms"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, d.fallback)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandDatabasePath(); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	if cfg.Cache.Dir != "" {
		expanded, err := expandPath(cfg.Cache.Dir, "")
		if err != nil {
			return nil, fmt.Errorf("invalid cache dir: %w", err)
		}
		cfg.Cache.Dir = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Database.Path == "" {
		return errors.New("database path cannot be empty after expansion")
	}

	if c.GitHub.SyncConcurrency < 1 {
		return fmt.Errorf("invalid GitHub sync concurrency: %d (must be at least 1)", c.GitHub.SyncConcurrency)
	}
	if c.GitHub.MaxRetries < 1 {
		return fmt.Errorf("invalid GitHub max retries: %d (must be at least 1)", c.GitHub.MaxRetries)
	}
	if c.GitHub.SyncInterval < 0 {
		return errors.New("GitHub sync interval cannot be negative")
	}
	if c.GitHub.RateLimit <= 0 {
		return errors.New("GitHub rate limit must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned unchanged.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDatabasePath defaults the database to ~/PynadeHub/pynade.db.
func (c *Config) expandDatabasePath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "PynadeHub", "pynade.db")

	expanded, err := expandPath(c.Database.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Database.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// splitList splits a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
