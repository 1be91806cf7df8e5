package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// Keys holds the tracker id (public key) and API key (private key).
type Keys struct {
	TrackerID string
	APIKey    string
}

// String never prints the API key
func (k Keys) String() string {
	return fmt.Sprintf("Keys(tracker: %s, key: [REDACTED])", k.TrackerID)
}

// LoadEnvFile loads a .env file into the process environment.
// Existing variables are not overridden. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.WrapError(err, errors.ErrConfiguration, "load env file")
	}
	return nil
}

// LoadCredentials reads both keys from the environment variables named in creds.
func LoadCredentials(creds Credentials) (Keys, error) {
	return LoadCredentialsFrom(creds, os.LookupEnv)
}

// LoadCredentialsFrom is LoadCredentials with a custom lookup function.
func LoadCredentialsFrom(creds Credentials, lookup func(string) (string, bool)) (Keys, error) {
	trackerID, err := requireEnv(lookup, creds.TrackerIDEnv)
	if err != nil {
		return Keys{}, err
	}
	apiKey, err := requireEnv(lookup, creds.APIKeyEnv)
	if err != nil {
		return Keys{}, err
	}
	return Keys{TrackerID: trackerID, APIKey: apiKey}, nil
}

func requireEnv(lookup func(string) (string, bool), name string) (string, error) {
	value, ok := lookup(name)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", errors.WrapError(
			fmt.Errorf("environment variable %s is not set", name),
			errors.ErrConfiguration,
			"load credentials",
		)
	}
	// "<...>" is the placeholder left in an unedited .env template
	if strings.HasPrefix(value, "<") {
		return "", errors.WrapError(
			fmt.Errorf("environment variable %s still holds a placeholder", name),
			errors.ErrConfiguration,
			"load credentials",
		)
	}
	return value, nil
}
