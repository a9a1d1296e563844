package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	JWTSecret    string
	TokenTTL     time.Duration
	FrontendURL  string

	// Bootstrap admin, created at startup if no user has AdminNationalID.
	AdminNationalID string
	AdminPassword   string
	AdminName       string
}

// ParseFlags reads flags, then the env file, then the environment.
// Flags win over environment; the env file never overrides variables
// already set in the process environment.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	flags := pflag.NewFlagSet("civic-vote", pflag.ContinueOnError)

	// Network config (can be CLI args or env)
	flags.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	flags.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL or SQLite file path")
	flags.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (sqlite or postgres)")
	flags.StringVar(&cfg.FrontendURL, "frontend-url", "", "Allowed CORS origin")
	flags.DurationVar(&cfg.TokenTTL, "token-ttl", 0, "Session token lifetime")
	flags.StringVar(&envFile, "env-file", ".env", "Env file to load (missing file is ignored)")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Token signing secret (prefer env)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port out of range: %d", cfg.Port)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.TokenTTL == 0 {
		if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return Config{}, errors.New("invalid TOKEN_TTL env variable")
			}
			cfg.TokenTTL = d
		} else {
			cfg.TokenTTL = 24 * time.Hour
		}
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("token TTL must be positive")
	}

	if cfg.FrontendURL == "" {
		cfg.FrontendURL = os.Getenv("FRONTEND_URL")
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	cfg.AdminNationalID = os.Getenv("ADMIN_NATIONAL_ID")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.AdminName = os.Getenv("ADMIN_NAME")
	if cfg.AdminName == "" {
		cfg.AdminName = "Administrator"
	}
	if (cfg.AdminNationalID == "") != (cfg.AdminPassword == "") {
		return Config{}, errors.New("ADMIN_NATIONAL_ID and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}
