package config

import (
	"fmt"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment `ignored:"true"`

	// Server configuration
	ServerHost string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// Database configuration. DBDriver selects postgres or sqlite.
	DBDriver      string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost        string `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string `envconfig:"DB_PORT" default:"5432"`
	DBUser        string `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	DBName        string `envconfig:"DB_NAME" default:"foodonline"`
	DBSSLMode     string `envconfig:"DB_SSL_MODE" default:"disable"`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"foodonline.db"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`

	// Redis configuration. RedisURL wins over host/port when set.
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisURL      string `envconfig:"REDIS_URL"`

	// Admin token configuration
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// Media storage. Uploads are disabled when S3Bucket is empty.
	S3Bucket  string `envconfig:"S3_BUCKET_NAME"`
	AWSRegion string `envconfig:"AWS_REGION" default:"us-east-1"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Registration attempts allowed per client IP per window
	RegistrationRateLimit  int           `envconfig:"REGISTRATION_RATE_LIMIT" default:"10"`
	RegistrationRateWindow time.Duration `envconfig:"REGISTRATION_RATE_WINDOW" default:"1m"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// secretOverrides maps Docker secret file names onto the sensitive fields
// they replace.
func (c *Config) secretOverrides() map[string]*string {
	return map[string]*string{
		"db_user":        &c.DBUser,
		"db_password":    &c.DBPassword,
		"jwt_secret":     &c.JWTSecret,
		"redis_password": &c.RedisPassword,
		"redis_url":      &c.RedisURL,
	}
}

// LoadConfig creates a new Config instance from environment variables, with
// Docker secrets taking precedence for sensitive values outside CI.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Env: env}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if env.UsesSecrets() {
		for name, field := range cfg.secretOverrides() {
			if value := readSecret(name); value != "" {
				*field = value
			}
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

// PostgresDSN builds the connection string used by both gorm and lib/pq
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
