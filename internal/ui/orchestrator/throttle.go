package orchestrator

import (
	"sync"

	"github.com/Its-donkey/folio/internal/ui/dom"
)

// frameThrottle coalesces bursts of scroll or pointer events into at most one
// run of fn per animation frame. fn reads the latest state when it runs.
type frameThrottle struct {
	win     dom.Window
	fn      func()
	mu      sync.Mutex
	pending dom.Release
}

func newFrameThrottle(win dom.Window, fn func()) *frameThrottle {
	return &frameThrottle{win: win, fn: fn}
}

func (f *frameThrottle) schedule() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending != nil {
		return
	}
	f.pending = f.win.RequestFrame(func() {
		f.mu.Lock()
		f.pending = nil
		f.mu.Unlock()
		f.fn()
	})
}

func (f *frameThrottle) cancel() {
	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()
	if pending != nil {
		pending()
	}
}
