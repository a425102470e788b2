package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Database: DatabaseConfig{Path: "/tmp/pynade.db"},
		GitHub: GitHubConfig{
			SyncConcurrency: 4,
			MaxRetries:      3,
			RateLimit:       1,
		},
	}
}

// load runs the loader against a fresh flag set so tests do not share
// flag.CommandLine state. The .env lookup points at a missing file.
func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	missing := filepath.Join(t.TempDir(), "absent.env")
	args = append([]string{"-env-file", missing}, args...)
	return LoadConfigFromArgs(flag.NewFlagSet("test", flag.ContinueOnError), args)
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_GitHubSettings(t *testing.T) {
	cfg := validConfig()
	cfg.GitHub.SyncConcurrency = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.GitHub.MaxRetries = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.GitHub.SyncInterval = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.GitHub.RateLimit = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "hub.db"))

	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Cache.CategoriesTTL)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TagsTTL)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.GitHub.SyncInterval)
	assert.Equal(t, 4, cfg.GitHub.SyncConcurrency)
	assert.Equal(t, 500*time.Millisecond, cfg.GitHub.RetryBackoff)
	assert.Empty(t, cfg.Cache.Dir)
}

func TestLoadConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "hub.db"))
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("GITHUB_SYNC_INTERVAL", "1h")

	cfg, err := load(t, "-port", "9100", "-github-sync-interval", "0")
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, time.Duration(0), cfg.GitHub.SyncInterval)
}

func TestLoadConfig_EnvFileDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=7000\nGITHUB_TOKEN=\"from-file\"\n"), 0o600))

	t.Setenv("DB_PATH", filepath.Join(dir, "hub.db"))
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("GITHUB_TOKEN", "")
	os.Unsetenv("GITHUB_TOKEN")

	cfg, err := LoadConfigFromArgs(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-env-file", envFile})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.GitHub.Token)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "hub.db"))
	t.Setenv("CACHE_TAGS_TTL", "soon")

	_, err := load(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TAGS_TTL")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/data/hub.db", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "hub.db"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example "))
	assert.Nil(t, splitList(""))
}
