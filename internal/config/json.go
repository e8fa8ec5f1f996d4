package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the optional JSON config file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey       string   `json:"token_sign_key"`
		TokenIssuer        string   `json:"token_issuer"`
		TokenDuration      Duration `json:"token_duration"`
		ResetTokenDuration Duration `json:"reset_token_duration"`
		ResetLinkBaseURL   string   `json:"reset_link_base_url"`
		BcryptCost         int      `json:"bcrypt_cost"`
		HashConcurrency    int      `json:"hash_concurrency"`
		MaskUnknownEmail   bool     `json:"mask_unknown_email"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Mailer struct {
		SMTPHost string `json:"smtp_host"`
		SMTPPort int    `json:"smtp_port"`
		User     string `json:"user"`
		Password string `json:"password"`
		From     string `json:"from"`
	} `json:"mailer,omitempty"`

	RateLimit struct {
		RedisAddress      string `json:"redis_address"`
		RedisPassword     string `json:"redis_password"`
		RedisDB           int    `json:"redis_db"`
		RequestsPerMinute int    `json:"requests_per_minute"`
	} `json:"rate_limit,omitempty"`

	Workers struct {
		ResetTokenSweepInterval Duration `json:"reset_token_sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:       jsonCfg.App.TokenSignKey,
			TokenIssuer:        jsonCfg.App.TokenIssuer,
			TokenDuration:      time.Duration(jsonCfg.App.TokenDuration),
			ResetTokenDuration: time.Duration(jsonCfg.App.ResetTokenDuration),
			ResetLinkBaseURL:   jsonCfg.App.ResetLinkBaseURL,
			BcryptCost:         jsonCfg.App.BcryptCost,
			HashConcurrency:    jsonCfg.App.HashConcurrency,
			MaskUnknownEmail:   jsonCfg.App.MaskUnknownEmail,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		Mailer: Mailer{
			SMTPHost: jsonCfg.Mailer.SMTPHost,
			SMTPPort: jsonCfg.Mailer.SMTPPort,
			User:     jsonCfg.Mailer.User,
			Password: jsonCfg.Mailer.Password,
			From:     jsonCfg.Mailer.From,
		},
		RateLimit: RateLimit{
			RedisAddress:      jsonCfg.RateLimit.RedisAddress,
			RedisPassword:     jsonCfg.RateLimit.RedisPassword,
			RedisDB:           jsonCfg.RateLimit.RedisDB,
			RequestsPerMinute: jsonCfg.RateLimit.RequestsPerMinute,
		},
		Workers: Workers{
			ResetTokenSweepInterval: time.Duration(jsonCfg.Workers.ResetTokenSweepInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
