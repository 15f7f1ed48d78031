package wasm

import "github.com/Its-donkey/folio/internal/ui/dom"

// stopOnUnload returns the pagehide handler. A page entering the
// back/forward cache keeps its listeners so it works again when restored;
// only a real unload tears down. stop runs off the event loop because it
// waits for in-flight submissions, which need the loop to finish.
func stopOnUnload(stop func()) dom.Handler {
	return func(ev dom.Event) {
		if ev.Persisted {
			return
		}
		go stop()
	}
}
