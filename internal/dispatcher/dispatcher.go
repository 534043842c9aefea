// Package dispatcher validates an alert message and fans it out to every
// recipient, one email per address.
package dispatcher

import (
	"context"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/sgaunet/mailalert/internal/mailservice"
	"github.com/sgaunet/mailalert/internal/recipient"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Most SMTP relays throttle well below this.
const maxSendsPerSecond = 10

const subjectExcerptLen = 50

// Result reports the outcome of one send attempt.
type Result struct {
	Address string `json:"address"`
	Err     error  `json:"-"`
}

// Dispatcher sends an alert message to every address in the store.
type Dispatcher struct {
	store         recipient.Store
	sender        mailservice.MailSender
	fromEmail     string
	subjectPrefix string
	maxMsgLen     int
	sendRateLimit *rate.Limiter
	appLog        *logrus.Logger
}

func New(store recipient.Store, sender mailservice.MailSender, fromEmail, subjectPrefix string, maxMsgLen int, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		store:         store,
		sender:        sender,
		fromEmail:     fromEmail,
		subjectPrefix: subjectPrefix,
		maxMsgLen:     maxMsgLen,
		sendRateLimit: rate.NewLimiter(rate.Limit(maxSendsPerSecond), maxSendsPerSecond),
		appLog:        log,
	}
}

// Dispatch validates message, reads the current recipient set and sends one
// email per address. Send failures are collected in the returned results and
// never abort the remaining sends. An empty recipient set is an error, not a
// no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) ([]Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w", ErrEmptyMessage)
	}
	if utf8.RuneCountInString(message) > d.maxMsgLen {
		return nil, fmt.Errorf("%w (max %d characters)", ErrMessageTooLong, d.maxMsgLen)
	}

	addresses, err := d.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipients: %w", err)
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("%w", ErrNoRecipients)
	}

	subject := d.buildSubject(message)
	body := buildBody(message)

	results := make([]Result, 0, len(addresses))
	for _, address := range addresses {
		if err := d.sendRateLimit.Wait(ctx); err != nil {
			results = append(results, Result{Address: address, Err: err})
			continue
		}
		err := d.sender.Send(ctx, d.fromEmail, subject, body, address)
		if err != nil {
			d.appLog.Errorf("failed to send alert to %s: %s", address, err)
		} else {
			d.appLog.Debugf("alert sent to %s", address)
		}
		results = append(results, Result{Address: address, Err: err})
	}
	return results, nil
}

// buildSubject prefixes a truncated excerpt of the message. Truncation
// counts runes so a multi-byte character is never split.
func (d *Dispatcher) buildSubject(message string) string {
	excerpt := message
	if runes := []rune(excerpt); len(runes) > subjectExcerptLen {
		excerpt = string(runes[:subjectExcerptLen]) + "..."
	}
	return fmt.Sprintf("%s: %s", d.subjectPrefix, excerpt)
}

func buildBody(message string) string {
	escaped := strings.ReplaceAll(html.EscapeString(message), "\n", "<br>\n")
	return "<html><body><p><b>System Alert Notification:</b></p><p>" + escaped + "</p></body></html>"
}

// Failed counts the results carrying an error.
func Failed(results []Result) int {
	var n int
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
