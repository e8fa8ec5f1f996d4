// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
)

const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN or host is required", ErrInvalidStorageConfigs)
	}

	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.BcryptCost < minBcryptCost || cfg.App.BcryptCost > maxBcryptCost {
		return fmt.Errorf("%w: bcrypt cost %d is out of range", ErrInvalidAppConfigs, cfg.App.BcryptCost)
	}
	if cfg.App.HashConcurrency < 1 {
		return fmt.Errorf("%w: hash concurrency must be positive", ErrInvalidAppConfigs)
	}
	if _, err := url.ParseRequestURI(cfg.App.ResetLinkBaseURL); err != nil {
		return fmt.Errorf("%w: reset link base url: %w", ErrInvalidAppConfigs, err)
	}

	if cfg.Server.RequestTimeout < 0 || cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidServerConfigs)
	}

	if cfg.RateLimit.RedisAddress != "" && cfg.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("%w: requests per minute must be at least 1", ErrInvalidRateLimitConfigs)
	}

	if cfg.Mailer.SMTPHost != "" && cfg.Mailer.From == "" {
		return fmt.Errorf("%w: sender address is required with an SMTP host", ErrInvalidMailerConfigs)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.ServerAddress == "" || cfg.RequestTimeout <= 0 {
		return ErrInvalidClientConfigs
	}

	return nil
}
