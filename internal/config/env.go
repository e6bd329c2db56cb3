package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvOpenAIAPIKey is read when no key is stored in settings
const EnvOpenAIAPIKey = "OPENAI_API_KEY"

// envCandidates lists .env locations in lookup order
func envCandidates() []string {
	return []string{
		".env",
		".env.local",
		filepath.Join(DefaultConfigDir(), ".env"),
	}
}

// LoadEnv loads the first .env file found; variables already set are kept.
// It returns the loaded path, or "" when none exists.
func LoadEnv() (string, error) {
	return loadEnvFrom(envCandidates())
}

func loadEnvFrom(paths []string) (string, error) {
	for _, envPath := range paths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", fmt.Errorf("error loading %s file: %w", envPath, err)
		}
		return envPath, nil
	}
	return "", nil
}
