// Package contact models visitor messages sent through the portfolio contact
// form and the submitters that deliver them.
package contact

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength    = 120
	MaxEmailLength   = 254
	MaxSubjectLength = 160
	MaxMessageLength = 5000
)

// Message is a single contact form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Receipt acknowledges an accepted message.
type Receipt struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// ErrInvalidMessage is wrapped by *ValidationError.
var ErrInvalidMessage = errors.New("contact: invalid message")

// ValidationError lists the offending fields and a reason for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, " ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidMessage }

// Normalize trims surrounding whitespace from every field.
func Normalize(m Message) Message {
	return Message{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Subject: strings.TrimSpace(m.Subject),
		Message: strings.TrimSpace(m.Message),
	}
}

// Validate checks required fields, the email address and length limits.
// Callers should Normalize first.
func Validate(m Message) error {
	fields := make(map[string]string)
	checkText(fields, "name", "Name", m.Name, MaxNameLength)
	checkText(fields, "subject", "Subject", m.Subject, MaxSubjectLength)
	checkText(fields, "message", "Message", m.Message, MaxMessageLength)

	switch {
	case m.Email == "":
		fields["email"] = "Email is required."
	case utf8.RuneCountInString(m.Email) > MaxEmailLength:
		fields["email"] = fmt.Sprintf("Email must be under %d characters.", MaxEmailLength)
	default:
		if addr, err := mail.ParseAddress(m.Email); err != nil || addr.Address != m.Email {
			fields["email"] = "Email must be a valid address."
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func checkText(fields map[string]string, key, label, value string, max int) {
	if value == "" {
		fields[key] = label + " is required."
		return
	}
	if utf8.RuneCountInString(value) > max {
		fields[key] = fmt.Sprintf("%s must be under %d characters.", label, max)
	}
}

// Acknowledgement is the text shown to the visitor once a message is sent.
func Acknowledgement(name string) string {
	return fmt.Sprintf("Thank you, %s! Your message has been sent successfully. I'll get back to you soon.", name)
}

// FailureNotice is the text shown to the visitor when delivery fails.
func FailureNotice(name string, err error) string {
	reason := "please try again later"
	var subErr *SubmissionError
	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		reason = valErr.Error()
	case errors.As(err, &subErr) && strings.TrimSpace(subErr.Reason) != "":
		reason = subErr.Reason
	}
	return fmt.Sprintf("Sorry, %s. Your message could not be sent: %s", name, reason)
}
