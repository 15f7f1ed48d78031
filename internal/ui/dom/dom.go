// Package dom describes the browser capabilities the interaction layer relies
// on. Implementations exist for syscall/js (internal/ui/wasm) and for tests
// (internal/ui/dom/domtest).
package dom

import "time"

// Release undoes a subscription or cancels a scheduled callback. Calling it
// more than once is safe.
type Release func()

// Handler reacts to a dispatched DOM event.
type Handler func(Event)

// Event carries the subset of DOM event data the interaction layer reads.
type Event struct {
	Type      string
	ClientX   float64
	ClientY   float64
	Target    Element
	// Persisted is set on pagehide/pageshow when the page moves through the
	// back/forward cache.
	Persisted bool
	Prevent   func()
}

// PreventDefault cancels the browser's default action for the event.
func (e Event) PreventDefault() {
	if e.Prevent != nil {
		e.Prevent()
	}
}

// Rect is an element's bounding box relative to the viewport.
type Rect struct {
	Top    float64
	Bottom float64
}

// Element is a rendered node the page exposes.
type Element interface {
	ID() string
	SetStyle(property, value string)
	Style(property string) string
	AddClass(name string)
	RemoveClass(name string)
	ToggleClass(name string) bool
	HasClass(name string) bool
	SetText(text string)
	Text() string
	Attr(name string) (string, bool)
	Value() string
	SetValue(value string)
	SetDisabled(disabled bool)
	Disabled() bool
	// Reset restores form controls to their initial values. It is a no-op
	// for elements that are not forms.
	Reset()
	// Query returns the first descendant matching selector, or nil.
	Query(selector string) Element
	Rect() Rect
	OffsetTop() float64
	On(event string, fn Handler) Release
}

// Document looks up elements and receives document-level events.
type Document interface {
	// Query returns the first element matching selector, or nil.
	Query(selector string) Element
	QueryAll(selector string) []Element
	ByID(id string) Element
	On(event string, fn Handler) Release
}

// IntersectionEntry reports a visibility change for an observed element.
type IntersectionEntry struct {
	Target       Element
	Intersecting bool
	Ratio        float64
}

// Observer watches elements for viewport intersection.
type Observer interface {
	Observe(el Element)
	Unobserve(el Element)
	Disconnect()
}

// Window exposes viewport state and window-level facilities.
type Window interface {
	On(event string, fn Handler) Release
	// Loaded reports whether the window load event has already fired.
	Loaded() bool
	ScrollY() float64
	InnerHeight() float64
	MatchMedia(query string) bool
	ScrollTo(top float64, smooth bool)
	// Alert shows a blocking acknowledgement to the visitor.
	Alert(message string)
	// RequestFrame runs fn before the next repaint.
	RequestFrame(fn func()) Release
	Observe(threshold float64, fn func([]IntersectionEntry)) Observer
}

// Clock schedules delayed callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Release
}

// Runtime bundles the capabilities injected into the orchestrator.
type Runtime struct {
	Document Document
	Window   Window
	Clock    Clock
}
