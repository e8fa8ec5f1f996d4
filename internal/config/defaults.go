package config

import (
	"net"
	"net/url"
	"runtime"
	"strconv"
	"time"
)

const (
	defaultHTTPAddress             = ":5000"
	defaultTokenIssuer             = "go-notes-keeper"
	defaultTokenDuration           = time.Hour
	defaultResetTokenDuration      = time.Hour
	defaultResetLinkBaseURL        = "http://localhost:3000/reset-password"
	defaultBcryptCost              = 10
	defaultRequestTimeout          = 30 * time.Second
	defaultShutdownTimeout         = 10 * time.Second
	defaultSMTPPort                = 587
	defaultRequestsPerMinute       = 10
	defaultResetTokenSweepInterval = 15 * time.Minute
	defaultDBPort                  = 5432
	defaultDBSSLMode               = "disable"

	gmailSMTPHost = "smtp.gmail.com"
	gmailSMTPPort = 587
)

// applyDefaults fills fields that are still zero after all sources were merged.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = defaultTokenDuration
	}
	if cfg.App.ResetTokenDuration == 0 {
		cfg.App.ResetTokenDuration = defaultResetTokenDuration
	}
	if cfg.App.ResetLinkBaseURL == "" {
		cfg.App.ResetLinkBaseURL = defaultResetLinkBaseURL
	}
	if cfg.App.BcryptCost == 0 {
		cfg.App.BcryptCost = defaultBcryptCost
	}
	if cfg.App.HashConcurrency == 0 {
		cfg.App.HashConcurrency = runtime.GOMAXPROCS(0)
	}

	if cfg.Mailer.SMTPHost != "" && cfg.Mailer.SMTPPort == 0 {
		cfg.Mailer.SMTPPort = defaultSMTPPort
	}
	if cfg.Mailer.From == "" {
		cfg.Mailer.From = cfg.Mailer.User
	}

	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = defaultRequestsPerMinute
	}

	if cfg.Workers.ResetTokenSweepInterval == 0 {
		cfg.Workers.ResetTokenSweepInterval = defaultResetTokenSweepInterval
	}

	if cfg.Storage.DB.DSN == "" && cfg.Storage.DB.Host != "" {
		cfg.Storage.DB.DSN = cfg.Storage.DB.buildDSN()
	}
}

// buildDSN assembles a postgres:// URL from the discrete connection fields.
func (db DB) buildDSN() string {
	port := db.Port
	if port == 0 {
		port = defaultDBPort
	}
	sslMode := db.SSLMode
	if sslMode == "" {
		sslMode = defaultDBSSLMode
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(db.Host, strconv.Itoa(port)),
		Path:     "/" + db.Name,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	if db.User != "" {
		if db.Password != "" {
			u.User = url.UserPassword(db.User, db.Password)
		} else {
			u.User = url.User(db.User)
		}
	}

	return u.String()
}
