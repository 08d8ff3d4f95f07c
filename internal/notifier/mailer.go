package notifier

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/fitcal/fitcal-backend/internal/config"
	"github.com/fitcal/fitcal-backend/internal/usecase"
)

// SMTPNotifier mails the raw event payload to each resolved recipient.
type SMTPNotifier struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		logger: logger,
	}
}

func (m *SMTPNotifier) Notify(ctx context.Context, n *usecase.Notification) error {
	if m.cfg.Host == "" {
		return nil
	}

	var recipients []string
	if n.ProviderEmail != "" {
		recipients = append(recipients, n.ProviderEmail)
	}
	if n.CustomerEmail != "" && n.CustomerEmail != n.ProviderEmail {
		recipients = append(recipients, n.CustomerEmail)
	}
	if len(recipients) == 0 {
		return nil
	}

	sender := m.cfg.Sender
	if sender == "" {
		sender = "no-reply@localhost"
	}

	var auth smtp.Auth
	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	subject := fmt.Sprintf("Stripe event: %s", n.EventType)

	for _, to := range recipients {
		msg := []byte(
			fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
				"MIME-Version: 1.0\r\n" +
				"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
				n.Summary + "\r\n\r\n" + string(n.Payload),
		)
		if err := smtp.SendMail(addr, auth, sender, []string{to}, msg); err != nil {
			return fmt.Errorf("failed to send mail to %s: %w", to, err)
		}
		m.logger.Debug("Event mail sent",
			zap.String("event_id", n.EventID),
			zap.String("to", to))
	}

	return nil
}
