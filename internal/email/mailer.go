// Package email delivers transactional mail through an SMTP relay.
package email

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/careerhub/career-api/internal/config"
)

// ErrDisabled is returned when no SMTP host is configured.
var ErrDisabled = errors.New("email delivery disabled: SMTP host not configured")

// Message is a single outbound email with a plain-text body and an HTML
// alternative.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends through gomail's dialer, one connection per message.
type SMTPMailer struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer builds a mailer. With an empty host every Send returns ErrDisabled.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// Enabled reports whether an SMTP relay is configured.
func (m *SMTPMailer) Enabled() bool {
	return m.dialer != nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if m.dialer == nil {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	if msg.ToName != "" {
		gm.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		gm.SetHeader("To", msg.To)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// Recorder is an in-memory Mailer that keeps every message it is given.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	// Err, when set, is returned from Send after recording.
	Err error
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return r.Err
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent message sent to addr.
func (r *Recorder) Last(addr string) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].To == addr {
			return r.messages[i], true
		}
	}
	return Message{}, false
}
