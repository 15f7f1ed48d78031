// Package notify tells the site owner about new contact messages.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/Its-donkey/folio/internal/contact/store"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("notify: smtp credentials not configured")

// Notifier delivers a stored contact record to the owner.
type Notifier interface {
	Notify(ctx context.Context, rec store.Record) error
}

// Nop discards notifications.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, store.Record) error { return nil }

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Mailer emails each contact message to the owner over SMTP.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       string
	SiteName string

	// Send defaults to smtp.SendMail.
	Send SendFunc
}

// Configured reports whether the mailer has enough settings to send.
func (m *Mailer) Configured() bool {
	return m != nil && m.Host != "" && m.Username != "" && m.Password != "" && m.To != ""
}

// Notify emails rec. The context bounds how long the caller waits; the
// SMTP exchange itself is not interruptible.
func (m *Mailer) Notify(ctx context.Context, rec store.Record) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	send := m.Send
	if send == nil {
		send = smtp.SendMail
	}
	port := m.Port
	if port == "" {
		port = "587"
	}
	from := m.From
	if from == "" {
		from = m.Username
	}

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	msg := m.Compose(rec)
	done := make(chan error, 1)
	go func() {
		done <- send(net.JoinHostPort(m.Host, port), auth, from, []string{m.To}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("notify: send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Compose renders the email for rec, replying to the visitor.
func (m *Mailer) Compose(rec store.Record) []byte {
	from := m.From
	if from == "" {
		from = m.Username
	}
	site := m.SiteName
	if site == "" {
		site = "portfolio"
	}

	var b strings.Builder
	writeHeader(&b, "To", m.To)
	writeHeader(&b, "From", from)
	writeHeader(&b, "Reply-To", rec.Email)
	writeHeader(&b, "Subject", fmt.Sprintf("%s contact: %s", site, rec.Subject))
	writeHeader(&b, "Date", rec.ReceivedAt.Format(time.RFC1123Z))
	writeHeader(&b, "Content-Type", "text/plain; charset=UTF-8")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "New contact form submission from your %s:\r\n\r\n", site)
	fmt.Fprintf(&b, "Name: %s\r\n", oneLine(rec.Name))
	fmt.Fprintf(&b, "Email: %s\r\n", oneLine(rec.Email))
	fmt.Fprintf(&b, "Subject: %s\r\n", oneLine(rec.Subject))
	b.WriteString("Message:\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(rec.Message, "\r\n", "\n"), "\n", "\r\n"))
	b.WriteString("\r\n\r\n---\r\n")
	fmt.Fprintf(&b, "Message ID %s\r\n", rec.ID)
	return []byte(b.String())
}

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// oneLine drops line breaks so visitor input cannot inject headers.
func oneLine(s string) string { return lineBreaks.Replace(s) }

func writeHeader(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "%s: %s\r\n", name, oneLine(value))
}
