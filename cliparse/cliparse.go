package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Database types
const (
	DatabasePostgres = "postgres" // pgx stdlib driver
	DatabasePQ       = "pq"       // lib/pq driver
	DatabaseSQLite   = "sqlite"   // modernc.org/sqlite, local development
)

type Config struct {
	Port         int           `mapstructure:"port"`
	DatabaseURL  string        `mapstructure:"database_url"`
	DatabaseType string        `mapstructure:"database_type"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTAudience  string        `mapstructure:"jwt_audience"`
	RedisURL     string        `mapstructure:"redis_url"`
	RateLimit    int           `mapstructure:"rate_limit"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	MinGroupSize int           `mapstructure:"min_group_size"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format"`
}

// option ties a config key to its flag and environment variable
type option struct {
	key  string
	flag string
	env  string
}

var options = []option{
	{"port", "port", "PORT"},
	{"database_url", "database-url", "DATABASE_URL"},
	{"database_type", "database-type", "DATABASE_TYPE"},
	{"jwt_secret", "jwt-secret", "JWT_SECRET"},
	{"jwt_audience", "jwt-audience", "JWT_AUDIENCE"},
	{"redis_url", "redis-url", "REDIS_URL"},
	{"rate_limit", "rate-limit", "RATE_LIMIT"},
	{"cache_ttl", "cache-ttl", "CACHE_TTL"},
	{"min_group_size", "min-group-size", "MIN_GROUP_SIZE"},
	{"log_level", "log-level", "LOG_LEVEL"},
	{"log_format", "log-format", "LOG_FORMAT"},
}

// NewFlagSet returns the flags understood by FromFlags. Commands add it to their own flag set.
func NewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("wellness-api", pflag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntP("port", "p", 0, "Server port")
	fs.StringP("database-url", "d", "", "Database URL")
	fs.StringP("database-type", "t", "", "Database type (postgres, pq or sqlite)")
	fs.String("redis-url", "", "Redis URL for cache and rate limiting (empty: in-memory)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.String("jwt-secret", "", "JWT signing secret of the auth provider (prefer env)")
	fs.String("jwt-audience", "", "Expected JWT audience")

	// Tuning
	fs.Int("rate-limit", 0, "Write requests per minute per caller")
	fs.Duration("cache-ttl", 0, "Team heatmap cache TTL")
	fs.Int("min-group-size", 0, "Minimum respondents before a team cell is shown")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.String("log-format", "", "Log encoding (json or console)")

	fs.String("config", "", "Optional YAML config file")

	return fs
}

// ParseFlags parses args and resolves the configuration
func ParseFlags(args []string) (Config, error) {
	fs := NewFlagSet()
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return FromFlags(fs)
}

// FromFlags resolves configuration with Load and validates it
func FromFlags(flags *pflag.FlagSet) (Config, error) {
	cfg, err := Load(flags)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load resolves configuration from parsed flags, the environment (including a
// .env file), an optional config file, and defaults, in that order of precedence.
// Commands that need only part of the config call it directly and check what they use.
func Load(flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("port", 3318)
	v.SetDefault("database_type", DatabasePostgres)
	v.SetDefault("jwt_audience", "authenticated")
	v.SetDefault("rate_limit", 30)
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("min_group_size", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	for _, opt := range options {
		if f := flags.Lookup(opt.flag); f != nil {
			if err := v.BindPFlag(opt.key, f); err != nil {
				return Config{}, err
			}
		}
		if err := v.BindEnv(opt.key, opt.env); err != nil {
			return Config{}, err
		}
	}

	if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks required settings and value ranges
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	switch c.DatabaseType {
	case DatabasePostgres, DatabasePQ, DatabaseSQLite:
	default:
		return fmt.Errorf("unknown database type %q", c.DatabaseType)
	}

	// Secrets - MUST be provided
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RateLimit <= 0 {
		return errors.New("rate limit must be positive")
	}
	if c.MinGroupSize <= 0 {
		return errors.New("min group size must be positive")
	}
	return nil
}
