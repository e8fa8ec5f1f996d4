package config

import (
	"fmt"
	"time"
)

const defaultClientRequestTimeout = 10 * time.Second

// ClientConfig holds the settings of the command-line client.
type ClientConfig struct {
	// ServerAddress is the base URL of the notes server.
	// Env: NOTES_SERVER_ADDRESS
	ServerAddress string `env:"NOTES_SERVER_ADDRESS" envDefault:"http://localhost:5000"`

	// RequestTimeout is the timeout of each outbound request.
	// Env: NOTES_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"NOTES_REQUEST_TIMEOUT"`

	// Token is the session token attached to authenticated requests.
	// Env: NOTES_TOKEN
	Token string `env:"NOTES_TOKEN"`
}

// GetClientConfig loads the client configuration from environment variables.
func GetClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("error loading client config: %w", err)
	}

	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultClientRequestTimeout
	}

	return cfg, cfg.validate()
}
