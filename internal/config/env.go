package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads the first readable file of envFiles into the process
// environment. Variables that are already set are not overwritten.
func loadEnvFile() error {
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
		fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
		return nil
	}
	return errors.New("no .env file found")
}
