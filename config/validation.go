package config

import (
	"fmt"
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

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	lines := make([]string, len(e))
	for i, err := range e {
		lines[i] = err.Error()
	}
	return "configuration validation failed:\n" + strings.Join(lines, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for its
// environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, message string) {
		errs = append(errs, ValidationError{Field: field, Message: message})
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for the postgres driver")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for the postgres driver")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "is required for the postgres driver")
		}
		if cfg.DBMaxOpenConns < 1 {
			add("DB_MAX_OPEN_CONNS", "must be at least 1")
		}
		if cfg.DBMaxIdleConns < 0 {
			add("DB_MAX_IDLE_CONNS", "must not be negative")
		}
	case DriverSQLite:
		if cfg.DBPath == "" {
			add("DB_PATH", "is required for the sqlite driver")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.JWTTTL <= 0 {
		add("JWT_TTL", "must be positive")
	}
	if cfg.RecipeCreateLimit < 0 {
		add("RATE_LIMIT_RECIPE_CREATE", "must not be negative")
	}
	if cfg.RecipeModifyLimit < 0 {
		add("RATE_LIMIT_RECIPE_MODIFY", "must not be negative")
	}
	if cfg.OptionsCacheTTL < 0 {
		add("OPTIONS_CACHE_TTL", "must not be negative")
	}

	if cfg.Environment == Production {
		if cfg.JWTSecret == DevelopmentJWTSecret {
			add("JWT_SECRET", "must not use the development secret in production")
		}
		if cfg.DBDriver == DriverPostgres && cfg.DBPassword == "" {
			add("DB_PASSWORD", "db_password secret is required in production")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
