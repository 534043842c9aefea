package mailgunservice

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/sgaunet/mailalert/internal/mailservice"
)

const sendTimeout = 10 * time.Second

type mailgunService struct {
	domain        string
	privateAPIKey string
}

// NewMailgunService creates a new Mailgun service instance.
//nolint:ireturn // Factory function intentionally returns interface for dependency injection
func NewMailgunService(domain string, privateAPIKey string) (mailservice.MailSender, error) {
	if domain == "" || privateAPIKey == "" {
		return nil, fmt.Errorf("%w", ErrServiceNotConfigured)
	}
	m := mailgunService{
		domain:        domain,
		privateAPIKey: privateAPIKey,
	}
	return &m, nil
}

func (m *mailgunService) Send(ctx context.Context, from string, subject string, body string, recipient string) error {
	mg := mailgun.NewMailgun(m.domain, m.privateAPIKey)
	message := mailgun.NewMessage(from, subject, "", recipient)
	message.SetHTML(body)
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if _, _, err := mg.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send email via mailgun: %w", err)
	}
	return nil
}
