package wasm

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Its-donkey/folio/internal/contact"
	"github.com/Its-donkey/folio/internal/ui/dom"
	"github.com/Its-donkey/folio/logging"
)

// SimulatedMode is the body data-contact-mode value that keeps submissions
// in the browser.
const SimulatedMode = "simulated"

const submitTimeout = 10 * time.Second

// submitterFor picks the contact submitter for the page's data attributes.
// The simulated delay runs on clock.
func submitterFor(mode, endpoint string, clock dom.Clock) contact.Submitter {
	if strings.EqualFold(strings.TrimSpace(mode), SimulatedMode) {
		return contact.Simulated{Delay: contact.DefaultSimulatedDelay, Clock: clock}
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = contact.DefaultEndpoint
	}
	return contact.HTTPSubmitter{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: submitTimeout},
	}
}

// consoleLine maps a JSON log line to a console method and message.
func consoleLine(p []byte) (method, message string) {
	var entry logging.Entry
	if err := json.Unmarshal(p, &entry); err != nil {
		return "log", strings.TrimSpace(string(p))
	}
	switch entry.Level {
	case logging.ERROR.String():
		method = "error"
	case logging.WARN.String():
		method = "warn"
	case logging.DEBUG.String():
		method = "debug"
	default:
		method = "info"
	}
	message = "[" + entry.Category + "] " + entry.Message
	if entry.Error != "" {
		message += ": " + entry.Error
	}
	return method, message
}
