package params

import (
	"fmt"

	"github.com/joho/godotenv"
)

// ParseEnvFile parses parameter file content in .env format (KEY=VALUE
// lines, # comments, optional quoting) and returns the key-value pairs.
// Parsing is delegated to godotenv so the accepted syntax matches the .env
// files the CLI auto-loads for credentials.
func ParseEnvFile(content []byte) (map[string]string, error) {
	result, err := godotenv.UnmarshalBytes(content)
	if err != nil {
		return nil, fmt.Errorf("invalid .env content: %w", err)
	}
	return result, nil
}
