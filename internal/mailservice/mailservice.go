// Package mailservice provides email service interfaces and implementations.
package mailservice

import "context"

// MailSender defines the interface for sending one email to one recipient.
type MailSender interface {
	Send(ctx context.Context, from string, subject string, body string, recipient string) error
}
