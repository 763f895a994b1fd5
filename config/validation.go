package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const minProductionSecretLen = 32

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// ValidateConfig checks if the configuration meets the requirements for its
// environment. All problems are reported together.
func ValidateConfig(cfg *Config) error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		fail("SERVER_PORT", "must be a valid port, got %q", cfg.ServerPort)
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			fail("DB_HOST", "is required for the postgres driver")
		}
		if cfg.DBName == "" {
			fail("DB_NAME", "is required for the postgres driver")
		}
		if cfg.DBUser == "" {
			fail("DB_USER", "is required for the postgres driver")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			fail("SQLITE_PATH", "is required for the sqlite driver")
		}
	default:
		fail("DB_DRIVER", "must be postgres or sqlite, got %q", cfg.DBDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env.UsesSecrets() {
			fail("JWT_SECRET", "jwt_secret secret or environment variable is required")
		} else {
			fail("JWT_SECRET", "environment variable is required in CI environment")
		}
	} else if cfg.Env == Production && len(cfg.JWTSecret) < minProductionSecretLen {
		fail("JWT_SECRET", "must be at least %d characters in production", minProductionSecretLen)
	}
	if cfg.Env == Production && cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		fail("DB_PASSWORD", "db_password secret is required in production")
	}

	if cfg.TokenTTL <= 0 {
		fail("TOKEN_TTL", "must be positive")
	}
	if cfg.RegistrationRateLimit <= 0 {
		fail("REGISTRATION_RATE_LIMIT", "must be positive")
	}
	if cfg.RegistrationRateWindow <= 0 {
		fail("REGISTRATION_RATE_WINDOW", "must be positive")
	}
	if !logLevels[strings.ToLower(cfg.LogLevel)] {
		fail("LOG_LEVEL", "must be one of debug, info, warn, error")
	}

	return errors.Join(errs...)
}
