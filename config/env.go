package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

const defaultSecretsDir = "/run/secrets"

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch env := os.Getenv("ENV"); env {
	case "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// UsesSecrets reports whether sensitive values are read from Docker secrets.
// CI injects them as plain environment variables instead.
func (e Environment) UsesSecrets() bool {
	return e != CI
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return defaultSecretsDir
}

// readSecret reads a Docker secret from the secrets directory. A missing
// secret yields an empty string.
func readSecret(name string) string {
	data, err := os.ReadFile(filepath.Join(secretsDir(), name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
