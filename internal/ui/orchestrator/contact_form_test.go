package orchestrator

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Its-donkey/folio/internal/contact"
	"github.com/google/go-cmp/cmp"
)

func (p *testPage) fillForm(name, email, subject, message string) {
	p.name.SetValue(name)
	p.email.SetValue(email)
	p.subject.SetValue(subject)
	p.message.SetValue(message)
}

type gatedSubmitter struct {
	calls    atomic.Int32
	received chan contact.Message
	release  chan error
	ctxErr   chan error
}

func newGatedSubmitter() *gatedSubmitter {
	return &gatedSubmitter{
		received: make(chan contact.Message, 4),
		release:  make(chan error),
		ctxErr:   make(chan error, 1),
	}
}

func (g *gatedSubmitter) Submit(ctx context.Context, msg contact.Message) (contact.Receipt, error) {
	g.calls.Add(1)
	g.received <- msg
	select {
	case err := <-g.release:
		if err != nil {
			return contact.Receipt{}, err
		}
		return contact.Receipt{ID: "msg-1", Message: "queued"}, nil
	case <-ctx.Done():
		g.ctxErr <- ctx.Err()
		return contact.Receipt{}, ctx.Err()
	}
}

func TestContactFormSendsAndAcknowledges(t *testing.T) {
	sub := newGatedSubmitter()
	p := newTestPage()
	p.start(t, sub)
	p.fillForm("Ada", "a@x.com", "Hi", "Hello")

	if !p.form.Dispatch(domEvent("submit")) {
		t.Fatalf("expected native submission to be prevented")
	}
	if p.button.Text() != "Sending..." || !p.button.Disabled() {
		t.Fatalf("expected sending state, got text=%q disabled=%v", p.button.Text(), p.button.Disabled())
	}

	got := <-sub.received
	want := contact.Message{Name: "Ada", Email: "a@x.com", Subject: "Hi", Message: "Hello"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("captured message mismatch (-want +got):\n%s", diff)
	}

	// A second submit while the first is pending is swallowed.
	p.form.Dispatch(domEvent("submit"))
	if n := sub.calls.Load(); n != 1 {
		t.Fatalf("expected a single pending submission, got %d calls", n)
	}

	sub.release <- nil
	waitFor(t, "submit button restored", func() bool { return !p.button.Disabled() })

	alerts := p.rt.Win.Alerts()
	if len(alerts) != 1 || !strings.Contains(alerts[0], "Ada") {
		t.Fatalf("expected acknowledgement naming Ada, got %v", alerts)
	}
	if alerts[0] != contact.Acknowledgement("Ada") {
		t.Fatalf("unexpected acknowledgement %q", alerts[0])
	}
	for _, field := range []string{p.name.Value(), p.email.Value(), p.subject.Value(), p.message.Value()} {
		if field != "" {
			t.Fatalf("expected cleared form, found %q", field)
		}
	}
	if p.button.Text() != "Send Message" {
		t.Fatalf("expected original label restored, got %q", p.button.Text())
	}
}

func TestContactFormFailureKeepsFields(t *testing.T) {
	sub := newGatedSubmitter()
	p := newTestPage()
	p.start(t, sub)
	p.fillForm("Ada", "a@x.com", "Hi", "Hello")

	p.form.Dispatch(domEvent("submit"))
	<-sub.received
	sub.release <- &contact.SubmissionError{Status: 502, Reason: "mail relay down"}
	waitFor(t, "submit button restored", func() bool { return !p.button.Disabled() })

	alerts := p.rt.Win.Alerts()
	if len(alerts) != 1 || !strings.Contains(alerts[0], "could not be sent") || !strings.Contains(alerts[0], "mail relay down") {
		t.Fatalf("expected failure notice, got %v", alerts)
	}
	if !p.form.HasClass("is-error") {
		t.Fatalf("expected form marked with is-error")
	}
	if p.name.Value() != "Ada" || p.message.Value() != "Hello" {
		t.Fatalf("expected fields kept for retry")
	}
	if p.button.Text() != "Send Message" {
		t.Fatalf("expected label restored, got %q", p.button.Text())
	}

	// The retry clears the error state.
	p.form.Dispatch(domEvent("submit"))
	<-sub.received
	if p.form.HasClass("is-error") {
		t.Fatalf("expected is-error cleared on retry")
	}
	sub.release <- nil
	waitFor(t, "retry completes", func() bool { return !p.button.Disabled() })
}

func TestContactFormRejectsInvalidInputLocally(t *testing.T) {
	sub := newGatedSubmitter()
	p := newTestPage()
	p.start(t, sub)
	p.fillForm("Ada", "nope", "Hi", "Hello")

	p.form.Dispatch(domEvent("submit"))
	if n := sub.calls.Load(); n != 0 {
		t.Fatalf("invalid message must not be sent, got %d calls", n)
	}
	if p.button.Disabled() {
		t.Fatalf("button must stay enabled")
	}
	alerts := p.rt.Win.Alerts()
	if len(alerts) != 1 || !strings.Contains(alerts[0], "Email must be a valid address.") {
		t.Fatalf("expected validation notice, got %v", alerts)
	}
	if !p.form.HasClass("is-error") {
		t.Fatalf("expected form marked with is-error")
	}
}

func TestStopCancelsInflightSubmission(t *testing.T) {
	sub := newGatedSubmitter()
	p := newTestPage()
	o := p.start(t, sub)
	p.fillForm("Ada", "a@x.com", "Hi", "Hello")

	p.form.Dispatch(domEvent("submit"))
	<-sub.received
	o.Stop()

	if err := <-sub.ctxErr; err != context.Canceled {
		t.Fatalf("expected submission context cancelled, got %v", err)
	}
	if alerts := p.rt.Win.Alerts(); len(alerts) != 0 {
		t.Fatalf("no acknowledgement expected after teardown, got %v", alerts)
	}
}

func TestDefaultSubmitterWaitsOnPageClock(t *testing.T) {
	p := newTestPage()
	p.start(t, nil)
	p.fillForm("Ada", "a@x.com", "Hi", "Hello")
	before := p.rt.Clock.Pending()

	p.form.Dispatch(domEvent("submit"))
	waitFor(t, "simulated delay scheduled", func() bool { return p.rt.Clock.Pending() == before+1 })

	p.rt.Clock.Advance(contact.DefaultSimulatedDelay - time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if !p.button.Disabled() || len(p.rt.Win.Alerts()) != 0 {
		t.Fatalf("submission finished before the simulated delay elapsed")
	}

	p.rt.Clock.Advance(time.Millisecond)
	waitFor(t, "submit button restored", func() bool { return !p.button.Disabled() })
	if alerts := p.rt.Win.Alerts(); len(alerts) != 1 || alerts[0] != contact.Acknowledgement("Ada") {
		t.Fatalf("expected acknowledgement, got %v", alerts)
	}
}
