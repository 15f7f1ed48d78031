package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Its-donkey/folio/internal/ui/dom/domtest"
	"github.com/google/go-cmp/cmp"
)

func TestNormalizeTrimsFields(t *testing.T) {
	got := Normalize(Message{Name: "  Ada ", Email: " a@x.com", Subject: "Hi  ", Message: "\nHello\n"})
	want := Message{Name: "Ada", Email: "a@x.com", Subject: "Hi", Message: "Hello"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAcceptsCompleteMessage(t *testing.T) {
	if err := Validate(Message{Name: "Ada", Email: "a@x.com", Subject: "Hi", Message: "Hello"}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
}

func TestValidateFlagsEveryMissingField(t *testing.T) {
	err := Validate(Message{})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage in chain")
	}
	for _, field := range []string{"name", "email", "subject", "message"} {
		if _, ok := valErr.Fields[field]; !ok {
			t.Fatalf("expected %s to be flagged, got %+v", field, valErr.Fields)
		}
	}
}

func TestValidateRejectsMalformedEmail(t *testing.T) {
	for _, email := range []string{"not-an-email", "Ada <a@x.com>", "a@"} {
		err := Validate(Message{Name: "Ada", Email: email, Subject: "Hi", Message: "Hello"})
		var valErr *ValidationError
		if !errors.As(err, &valErr) || valErr.Fields["email"] == "" {
			t.Fatalf("expected email error for %q, got %v", email, err)
		}
	}
}

func TestValidateEnforcesLengthLimits(t *testing.T) {
	msg := Message{Name: strings.Repeat("a", MaxNameLength+1), Email: "a@x.com", Subject: "Hi", Message: "Hello"}
	var valErr *ValidationError
	if err := Validate(msg); !errors.As(err, &valErr) || valErr.Fields["name"] == "" {
		t.Fatalf("expected name length error, got %v", err)
	}
}

func TestAcknowledgementNamesVisitor(t *testing.T) {
	got := Acknowledgement("Ada")
	if !strings.Contains(got, "Thank you, Ada!") {
		t.Fatalf("unexpected acknowledgement %q", got)
	}
}

func TestFailureNoticeUsesReason(t *testing.T) {
	got := FailureNotice("Ada", &SubmissionError{Status: 502, Reason: "mail relay down"})
	if !strings.Contains(got, "Ada") || !strings.Contains(got, "mail relay down") {
		t.Fatalf("unexpected notice %q", got)
	}
	generic := FailureNotice("Ada", errors.New("boom"))
	if !strings.Contains(generic, "please try again later") {
		t.Fatalf("expected generic reason, got %q", generic)
	}
}

func TestHTTPSubmitterPostsJSON(t *testing.T) {
	var received Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(Receipt{ID: "abc", Message: "queued"})
	}))
	defer srv.Close()

	msg := Message{Name: "Ada", Email: "a@x.com", Subject: "Hi", Message: "Hello"}
	receipt, err := HTTPSubmitter{Endpoint: srv.URL}.Submit(context.Background(), msg)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.ID != "abc" {
		t.Fatalf("expected receipt id abc, got %+v", receipt)
	}
	if diff := cmp.Diff(msg, received); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPSubmitterSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Email must be a valid address."}`))
	}))
	defer srv.Close()

	_, err := HTTPSubmitter{Endpoint: srv.URL}.Submit(context.Background(), Message{Name: "Ada"})
	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.Status != http.StatusBadRequest || subErr.Reason != "Email must be a valid address." {
		t.Fatalf("unexpected error %+v", subErr)
	}
	if !errors.Is(err, ErrSubmissionFailed) {
		t.Fatalf("expected ErrSubmissionFailed in chain")
	}
}

func TestSimulatedHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Simulated{Delay: time.Hour}).Submit(ctx, Message{Name: "Ada"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSimulatedAcknowledgesAfterDelay(t *testing.T) {
	receipt, err := Simulated{Delay: time.Millisecond}.Submit(context.Background(), Message{Name: "Ada"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.Message != Acknowledgement("Ada") {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
}

func TestSimulatedWaitsForClock(t *testing.T) {
	clock := domtest.NewClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	sub := Simulated{Delay: DefaultSimulatedDelay, Clock: clock}

	type result struct {
		receipt Receipt
		err     error
	}
	done := make(chan result, 1)
	go func() {
		receipt, err := sub.Submit(context.Background(), Message{Name: "Ada"})
		done <- result{receipt, err}
	}()

	deadline := time.Now().Add(time.Second)
	for clock.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("simulated submit never scheduled its delay")
		}
		time.Sleep(time.Millisecond)
	}

	clock.Advance(1499 * time.Millisecond)
	select {
	case r := <-done:
		t.Fatalf("acknowledged before the delay elapsed: %+v", r)
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(time.Millisecond)
	select {
	case r := <-done:
		if r.err != nil || r.receipt.Message != Acknowledgement("Ada") {
			t.Fatalf("unexpected result %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected acknowledgement once the delay elapsed")
	}
}

func TestSimulatedCancelStopsClockTimer(t *testing.T) {
	clock := domtest.NewClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Simulated{Delay: time.Hour, Clock: clock}).Submit(ctx, Message{Name: "Ada"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n := clock.Pending(); n != 0 {
		t.Fatalf("expected the delay timer released, %d pending", n)
	}
}
