// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line flags and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Cobra commands register NewFlagSet on their own flags and call FromFlags.
Load resolves the same sources without validating, for commands such as
"token" that only need the JWT settings.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: database connection string (required)
  - DatabaseType: postgres (pgx), pq (lib/pq) or sqlite (default: postgres)
  - JWTSecret: HS256 secret of the auth provider (required)
  - JWTAudience: expected "aud" claim (default: authenticated)
  - RedisURL: cache and rate limiter backend (default: in-memory)
  - RateLimit: write requests per minute per caller (default: 30)
  - CacheTTL: team heatmap cache lifetime (default: 5m)
  - MinGroupSize: respondents needed before a team cell is shown (default: 5)
  - LogLevel, LogFormat: zap level and encoding (default: info, json)

# Sources

Highest precedence first:

	CLI flags     -p, -d, -t, --jwt-secret, --redis-url, ...
	Environment   PORT, DATABASE_URL, DATABASE_TYPE, JWT_SECRET, REDIS_URL, ...
	.env file     loaded from the working directory when present
	Config file   --config wellness.yaml (keys: port, database_url, ...)
	Defaults

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - JWT_SECRET is missing
  - DATABASE_TYPE is not postgres, pq or sqlite
  - the port, rate limit or group size is out of range
*/
package cliparse
