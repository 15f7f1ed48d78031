//go:build js && wasm

package wasm

import (
	"context"
	"syscall/js"

	"github.com/Its-donkey/folio/internal/ui/orchestrator"
	"github.com/Its-donkey/folio/logging"
)

// RunApp wires the page interactions and blocks forever.
func RunApp() {
	done := make(chan struct{})
	logger := logging.New("folio-ui", logging.INFO, ConsoleWriter{})
	rt := Runtime()

	body := js.Global().Get("document").Get("body")
	mode, endpoint := "", ""
	if body.Truthy() {
		mode = attr(body, "data-contact-mode")
		endpoint = attr(body, "data-contact-endpoint")
	}

	o, err := orchestrator.New(orchestrator.Options{
		Runtime:   rt,
		Submitter: submitterFor(mode, endpoint, rt.Clock),
		Logger:    logger,
	})
	if err != nil {
		logger.Error("ui", "page markup incomplete, running without effects", err, nil)
		orchestrator.Degrade(rt.Document)
		<-done
		return
	}
	if err := o.Start(context.Background()); err != nil {
		logger.Error("ui", "failed to wire interactions", err, nil)
		orchestrator.Degrade(rt.Document)
		<-done
		return
	}

	rt.Window.On("pagehide", stopOnUnload(o.Stop))
	<-done
}

func attr(v js.Value, name string) string {
	out := v.Call("getAttribute", name)
	if out.Type() != js.TypeString {
		return ""
	}
	return out.String()
}
