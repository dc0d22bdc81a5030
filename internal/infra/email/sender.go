package email

import (
	"context"
	"fmt"
	"log/slog"

	mail "github.com/go-mail/mail/v2"

	"fractioncar/internal/domain/shared/faults"
)

type Config struct {
	Host    string
	Port    int
	User    string
	Pass    string
	From    string
	Enabled bool
}

// Sender delivers mail over SMTP. When disabled (local/dev without an SMTP
// relay) sends are logged and dropped.
type Sender struct {
	dialer  *mail.Dialer
	from    string
	enabled bool
	logger  *slog.Logger
}

func NewSender(cfg Config, logger *slog.Logger) *Sender {
	return &Sender{
		dialer:  mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:    cfg.From,
		enabled: cfg.Enabled,
		logger:  logger,
	}
}

func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	if !s.enabled {
		if s.logger != nil {
			s.logger.Info("email disabled, dropping message", "to", to, "subject", subject)
		}
		return nil
	}
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("email: send to %s: %v: %w", to, err, faults.ErrExternalService)
	}
	return nil
}
