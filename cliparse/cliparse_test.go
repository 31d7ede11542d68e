// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable we read; viper treats empty values as unset.
func clearEnv(t *testing.T) {
	for _, opt := range options {
		t.Setenv(opt.env, "")
	}
}

func setRequiredEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("RATE_LIMIT", "12")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://test", cfg.DatabaseURL)
	assert.Equal(t, 12, cfg.RateLimit)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)

	assert.Equal(t, 3318, cfg.Port)
	assert.Equal(t, DatabasePostgres, cfg.DatabaseType)
	assert.Equal(t, "authenticated", cfg.JWTAudience)
	assert.Equal(t, 30, cfg.RateLimit)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5, cfg.MinGroupSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisURL)
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-t", "sqlite", "--jwt-secret", "s1"})
	require.NoError(t, err)

	// CLI should override env
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DatabaseSQLite, cfg.DatabaseType)
	assert.Equal(t, "s1", cfg.JWTSecret)
}

func TestParseFlags_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "wellness.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database_url: postgres://file\njwt_secret: from-file\nmin_group_size: 3\nport: 7000\n"), 0o600))

	t.Setenv("PORT", "7100")

	cfg, err := ParseFlags([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, "postgres://file", cfg.DatabaseURL)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 3, cfg.MinGroupSize)
	// Env beats the config file
	assert.Equal(t, 7100, cfg.Port)
}

func TestParseFlags_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database url", map[string]string{"JWT_SECRET": "s"}, nil},
		{"missing jwt secret", map[string]string{"DATABASE_URL": "postgres://x"}, nil},
		{"unknown database type", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s", "DATABASE_TYPE": "mysql"}, nil},
		{"zero rate limit", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s"}, []string{"--rate-limit", "-1"}},
		{"bad config file", map[string]string{"DATABASE_URL": "x", "JWT_SECRET": "s"}, []string{"--config", "/nonexistent/wellness.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoad_SkipsValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "only-secret")

	fs := NewFlagSet()
	require.NoError(t, fs.Parse([]string{}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, "only-secret", cfg.JWTSecret)
	assert.Empty(t, cfg.DatabaseURL)

	_, err = FromFlags(fs)
	assert.Error(t, err)
}
