package orchestrator

import (
	"context"
	"errors"

	"github.com/Its-donkey/folio/internal/contact"
	"github.com/Its-donkey/folio/internal/ui/dom"
)

const sendingLabel = "Sending..."

// setupContactForm intercepts the contact form and hands the captured message
// to the submitter. Only one submission runs at a time; submits made while
// one is pending are swallowed.
func (o *Orchestrator) setupContactForm() dom.Release {
	if o.t.form == nil {
		return nil
	}
	return o.t.form.On("submit", func(ev dom.Event) {
		ev.PreventDefault()
		o.submitContact()
	})
}

func (o *Orchestrator) captureMessage() contact.Message {
	return contact.Normalize(contact.Message{
		Name:    o.t.name.Value(),
		Email:   o.t.email.Value(),
		Subject: o.t.subject.Value(),
		Message: o.t.message.Value(),
	})
}

func (o *Orchestrator) submitContact() {
	o.mu.Lock()
	if o.pending || o.stopped {
		o.mu.Unlock()
		return
	}
	msg := o.captureMessage()
	if err := contact.Validate(msg); err != nil {
		o.mu.Unlock()
		o.t.form.AddClass("is-error")
		o.win.Alert(contact.FailureNotice(msg.Name, err))
		return
	}
	o.pending = true
	ctx := o.ctx
	o.inflight.Add(1)
	o.mu.Unlock()

	button, form := o.t.submit, o.t.form
	original := button.Text()
	button.SetText(sendingLabel)
	button.SetDisabled(true)
	form.RemoveClass("is-error")

	go func() {
		defer o.inflight.Done()

		subCtx, cancel := context.WithTimeout(ctx, o.timing.SubmitTimeout)
		receipt, err := o.submitter.Submit(subCtx, msg)
		cancel()

		o.mu.Lock()
		o.pending = false
		torndown := o.stopped || ctx.Err() != nil
		o.mu.Unlock()
		if torndown {
			return
		}

		if err != nil {
			note := "submission failed"
			if errors.Is(err, context.DeadlineExceeded) {
				note = "submission timed out"
			}
			o.log.Error("contact", note, err, map[string]any{"subject": msg.Subject})
			form.AddClass("is-error")
			o.win.Alert(contact.FailureNotice(msg.Name, err))
			button.SetText(original)
			button.SetDisabled(false)
			return
		}

		o.log.Info("contact", "message sent", map[string]any{"id": receipt.ID})
		o.win.Alert(contact.Acknowledgement(msg.Name))
		form.Reset()
		button.SetText(original)
		button.SetDisabled(false)
	}()
}
