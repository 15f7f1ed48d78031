package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Its-donkey/folio/internal/ui/dom"
)

// DefaultEndpoint is the path the page server mounts the contact API on.
const DefaultEndpoint = "/api/contact"

// Submitter delivers a message and reports the outcome.
type Submitter interface {
	Submit(ctx context.Context, msg Message) (Receipt, error)
}

// ErrSubmissionFailed is wrapped by *SubmissionError.
var ErrSubmissionFailed = errors.New("contact: submission failed")

// SubmissionError describes a rejected or failed delivery.
type SubmissionError struct {
	Status int
	Reason string
}

func (e *SubmissionError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("contact: submission failed (%d): %s", e.Status, e.Reason)
	}
	return "contact: submission failed: " + e.Reason
}

func (e *SubmissionError) Unwrap() error { return ErrSubmissionFailed }

// HTTPSubmitter posts messages as JSON to the contact API.
type HTTPSubmitter struct {
	Endpoint string
	Client   *http.Client
}

type errorResponse struct {
	Message string `json:"message"`
}

// Submit sends msg and decodes the receipt.
func (s HTTPSubmitter) Submit(ctx context.Context, msg Message) (Receipt, error) {
	endpoint := strings.TrimSpace(s.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return Receipt{}, fmt.Errorf("encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return Receipt{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Receipt{}, ctx.Err()
		}
		return Receipt{}, &SubmissionError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return Receipt{}, &SubmissionError{Status: resp.StatusCode, Reason: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload errorResponse
		if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
			return Receipt{}, &SubmissionError{Status: resp.StatusCode, Reason: payload.Message}
		}
		if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
			return Receipt{}, &SubmissionError{Status: resp.StatusCode, Reason: trimmed}
		}
		return Receipt{}, &SubmissionError{Status: resp.StatusCode, Reason: resp.Status}
	}

	var receipt Receipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return Receipt{Message: "Message sent."}, nil
	}
	return receipt, nil
}

// Simulated accepts every message after a fixed delay without contacting a
// server. It is used when the page is served without the contact API.
type Simulated struct {
	Delay time.Duration
	// Clock schedules the delay. Nil uses the process timer.
	Clock dom.Clock
}

// DefaultSimulatedDelay matches the delay visitors saw before the contact API
// existed.
const DefaultSimulatedDelay = 1500 * time.Millisecond

// Submit waits for the delay or for ctx to end.
func (s Simulated) Submit(ctx context.Context, msg Message) (Receipt, error) {
	elapsed := make(chan struct{})
	fire := func() { close(elapsed) }
	var stop func()
	if s.Clock != nil {
		stop = s.Clock.AfterFunc(s.Delay, fire)
	} else {
		timer := time.AfterFunc(s.Delay, fire)
		stop = func() { timer.Stop() }
	}
	defer stop()
	select {
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	case <-elapsed:
		return Receipt{Message: Acknowledgement(msg.Name)}, nil
	}
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, msg Message) (Receipt, error)

func (f SubmitterFunc) Submit(ctx context.Context, msg Message) (Receipt, error) {
	return f(ctx, msg)
}
