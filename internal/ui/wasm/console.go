//go:build js && wasm

package wasm

import (
	"encoding/json"
	"syscall/js"

	"github.com/Its-donkey/folio/logging"
)

// ConsoleWriter sends logger output to the browser console at the entry's
// level, with the structured fields attached as an object.
type ConsoleWriter struct{}

func (ConsoleWriter) Write(p []byte) (int, error) {
	console := js.Global().Get("console")
	if !console.Truthy() {
		return len(p), nil
	}
	method, message := consoleLine(p)
	var entry logging.Entry
	if json.Unmarshal(p, &entry) == nil && len(entry.Fields) > 0 {
		if fields, err := json.Marshal(entry.Fields); err == nil {
			console.Call(method, message, js.Global().Get("JSON").Call("parse", string(fields)))
			return len(p), nil
		}
	}
	console.Call(method, message)
	return len(p), nil
}
