// Package store persists contact messages received by the site.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Its-donkey/folio/internal/contact"
	"github.com/google/uuid"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store: closed")

// Record is a stored contact message.
type Record struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"receivedAt"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	ClientHash string    `json:"clientHash,omitempty"`
}

// NewRecord stamps msg with a fresh ID and the receive time.
func NewRecord(msg contact.Message, receivedAt time.Time, clientHash string) Record {
	return Record{
		ID:         uuid.NewString(),
		ReceivedAt: receivedAt.UTC(),
		Name:       msg.Name,
		Email:      msg.Email,
		Subject:    msg.Subject,
		Message:    msg.Message,
		ClientHash: clientHash,
	}
}

// Contact returns the visitor-facing part of the record.
func (r Record) Contact() contact.Message {
	return contact.Message{Name: r.Name, Email: r.Email, Subject: r.Subject, Message: r.Message}
}

// Store saves and lists contact records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	// Recent returns up to limit records, newest first. A limit of zero or
	// less returns every record.
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open returns the store for driver ("json" or "sqlite") at path.
func Open(driver, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "json":
		return NewJSONStore(path)
	case "sqlite", "sqlite3":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}
