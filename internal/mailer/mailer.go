package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-notes-keeper/internal/config"
	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/wneessen/go-mail"
)

var (
	// ErrBuildingMessage is returned when the reset email cannot be composed,
	// for example because the recipient address is invalid.
	ErrBuildingMessage = errors.New("error building email message")
	// ErrSendingMessage is returned when the SMTP relay rejects or drops the message.
	ErrSendingMessage = errors.New("error sending email message")
)

// sender is the part of *mail.Client used by SMTPMailer.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPMailer sends password reset emails through an SMTP relay.
type SMTPMailer struct {
	client   sender
	from     string
	validity time.Duration
	logger   *logger.Logger
}

// LogMailer only logs the reset link.
type LogMailer struct {
	logger *logger.Logger
}

// Mailer is satisfied by both implementations.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

// New returns an SMTPMailer when cfg.Mailer.SMTPHost is set and a LogMailer otherwise.
func New(cfg config.StructuredConfig, log *logger.Logger) (Mailer, error) {
	if cfg.Mailer.SMTPHost == "" {
		log.Warn().Msg("no SMTP host configured, password reset links will be logged")
		return NewLogMailer(log), nil
	}

	return NewSMTPMailer(cfg.Mailer, cfg.App.ResetTokenDuration, log)
}

// NewSMTPMailer connects lazily: nothing is dialed until the first email.
// STARTTLS is required and PLAIN auth is used when credentials are given.
func NewSMTPMailer(cfg config.Mailer, validity time.Duration, log *logger.Logger) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating SMTP client: %w", err)
	}

	return &SMTPMailer{
		client:   client,
		from:     cfg.From,
		validity: validity,
		logger:   log,
	}, nil
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	msg, err := m.buildResetMessage(to, link)
	if err != nil {
		return err
	}

	if err = m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrSendingMessage, err)
	}

	logger.FromContext(ctx).Debug().Str("to", to).Msg("password reset email sent")
	return nil
}

func (m *SMTPMailer) buildResetMessage(to, link string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("%w: invalid sender: %w", ErrBuildingMessage, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: invalid recipient: %w", ErrBuildingMessage, err)
	}
	msg.Subject(resetSubject)

	if err := msg.SetBodyHTMLTemplate(resetTemplate, newResetData(link, m.validity)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingMessage, err)
	}

	return msg, nil
}

// NewLogMailer returns a Mailer that only logs the reset link. New selects it
// when no SMTP host is configured.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{logger: log}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	m.logger.Info().Str("to", to).Str("link", link).Msg("password reset email (not sent)")
	return nil
}
