// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// legacyEnv mirrors the variable names used by earlier deployments of the
// notes backend (a flat .env file).
type legacyEnv struct {
	JWTSecret  string `env:"JWT_SECRET"`
	DBHost     string `env:"DB_HOST"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	EmailUser  string `env:"EMAIL_USER"`
	EmailPass  string `env:"EMAIL_PASS"`
	Port       int    `env:"PORT"`
}

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Struct fields are mapped via their `env` and `envPrefix` tags
// defined on [StructuredConfig] and its nested types.
func parseEnv(cfg any) error {
	err := env.Parse(cfg)
	if err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}

// parseLegacyEnv reads the flat legacy variables and maps them onto the
// structured layout. The legacy mailer always used Gmail, so an SMTP host is
// implied when mail credentials are present.
func parseLegacyEnv() (*StructuredConfig, error) {
	var legacy legacyEnv
	if err := parseEnv(&legacy); err != nil {
		return nil, err
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey: legacy.JWTSecret,
		},
		Storage: Storage{
			DB: DB{
				Host:     legacy.DBHost,
				User:     legacy.DBUser,
				Password: legacy.DBPassword,
				Name:     legacy.DBName,
			},
		},
		Mailer: Mailer{
			User:     legacy.EmailUser,
			Password: legacy.EmailPass,
		},
	}

	if legacy.EmailUser != "" {
		cfg.Mailer.SMTPHost = gmailSMTPHost
		cfg.Mailer.SMTPPort = gmailSMTPPort
	}

	if legacy.Port != 0 {
		cfg.Server.HTTPAddress = net.JoinHostPort("", strconv.Itoa(legacy.Port))
	}

	return cfg, nil
}
