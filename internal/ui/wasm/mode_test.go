package wasm

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/Its-donkey/folio/internal/contact"
	"github.com/Its-donkey/folio/internal/ui/dom/domtest"
	"github.com/Its-donkey/folio/logging"
)

func TestSubmitterForMode(t *testing.T) {
	clock := domtest.NewClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	sim, ok := submitterFor(" Simulated ", "", clock).(contact.Simulated)
	if !ok {
		t.Fatalf("expected simulated submitter")
	}
	if sim.Delay != contact.DefaultSimulatedDelay || sim.Clock != clock {
		t.Fatalf("expected page clock driving the default delay, got %+v", sim)
	}
	sub, ok := submitterFor("", "", nil).(contact.HTTPSubmitter)
	if !ok {
		t.Fatalf("expected HTTP submitter by default")
	}
	if sub.Endpoint != contact.DefaultEndpoint || sub.Client == nil {
		t.Fatalf("unexpected HTTP submitter %+v", sub)
	}
	if got := submitterFor("http", "/custom", nil).(contact.HTTPSubmitter); got.Endpoint != "/custom" {
		t.Fatalf("expected custom endpoint, got %q", got.Endpoint)
	}
}

func TestConsoleLineUsesEntryLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("folio-ui", logging.DEBUG, &buf)
	logger.Error("contact", "submission failed", errors.New("offline"), nil)

	method, message := consoleLine(buf.Bytes())
	if method != "error" || message != "[contact] submission failed: offline" {
		t.Fatalf("unexpected console line %q %q", method, message)
	}

	buf.Reset()
	logger.Warn("ui", "skipping progress bar", nil)
	if method, _ := consoleLine(buf.Bytes()); method != "warn" {
		t.Fatalf("expected warn, got %q", method)
	}

	if method, message := consoleLine([]byte("plain text\n")); method != "log" || message != "plain text" {
		t.Fatalf("unexpected fallback %q %q", method, message)
	}
}
