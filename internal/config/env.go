package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envPaths are searched in order; the first existing file wins.
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads environment variables from the first .env file found. A
// missing file is not an error since variables may be set system-wide.
// Variables already present in the environment are not overridden.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// APIKeys holds all API keys loaded from environment
type APIKeys struct {
	OpenAI string
}

// GetAPIKeys retrieves and validates API keys from environment variables.
// An empty key is allowed; a malformed one fails fast.
func GetAPIKeys() (*APIKeys, error) {
	apiKeys := &APIKeys{
		OpenAI: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
	}
	if apiKeys.OpenAI != "" {
		if err := ValidateAPIKey(apiKeys.OpenAI, "OpenAI"); err != nil {
			return nil, err
		}
	}
	return apiKeys, nil
}
