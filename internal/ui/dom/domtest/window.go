package domtest

import (
	"sort"
	"sync"
	"time"

	"github.com/Its-donkey/folio/internal/ui/dom"
)

// ScrollCall records a Window.ScrollTo invocation.
type ScrollCall struct {
	Top    float64
	Smooth bool
}

// Window is an in-memory dom.Window. Frames and intersections are delivered
// only when the test asks for them.
type Window struct {
	mu          sync.Mutex
	loaded      bool
	scrollY     float64
	innerHeight float64
	media       map[string]bool
	scrolls     []ScrollCall
	alerts      []string
	frames      []*frame
	observers   []*observer
	events      listeners
}

type frame struct {
	fn        func()
	cancelled bool
}

// NewWindow returns a window with a 800px viewport.
func NewWindow() *Window {
	return &Window{innerHeight: 800, media: make(map[string]bool)}
}

// SetMedia sets the result of MatchMedia for query.
func (w *Window) SetMedia(query string, matches bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.media[query] = matches
}

// SetInnerHeight sets the viewport height.
func (w *Window) SetInnerHeight(h float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.innerHeight = h
}

// Load marks the window loaded and fires the load event.
func (w *Window) Load() {
	w.mu.Lock()
	w.loaded = true
	w.mu.Unlock()
	w.events.dispatch(dom.Event{Type: "load"})
}

// Scroll moves the viewport and fires a scroll event.
func (w *Window) Scroll(y float64) {
	w.mu.Lock()
	w.scrollY = y
	w.mu.Unlock()
	w.events.dispatch(dom.Event{Type: "scroll"})
}

// FlushFrames runs the queued animation frames and returns how many ran.
func (w *Window) FlushFrames() int {
	w.mu.Lock()
	pending := w.frames
	w.frames = nil
	w.mu.Unlock()
	ran := 0
	for _, f := range pending {
		if f.cancelled {
			continue
		}
		f.fn()
		ran++
	}
	return ran
}

// PendingFrames reports queued, uncancelled frames.
func (w *Window) PendingFrames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, f := range w.frames {
		if !f.cancelled {
			n++
		}
	}
	return n
}

// Intersect reports el at the given visible ratio to every observer watching
// it. Observers whose threshold is met receive an intersecting entry.
func (w *Window) Intersect(el *Element, ratio float64) {
	w.mu.Lock()
	observers := append([]*observer(nil), w.observers...)
	w.mu.Unlock()
	for _, o := range observers {
		if !o.watching(el) {
			continue
		}
		o.fn([]dom.IntersectionEntry{{
			Target:       el,
			Intersecting: ratio > 0 && ratio >= o.threshold,
			Ratio:        ratio,
		}})
	}
}

// Observing reports whether any observer is still watching el.
func (w *Window) Observing(el *Element) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, o := range w.observers {
		if o.watching(el) {
			return true
		}
	}
	return false
}

// Scrolls returns the recorded ScrollTo calls.
func (w *Window) Scrolls() []ScrollCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]ScrollCall(nil), w.scrolls...)
}

// Alerts returns the recorded alert messages.
func (w *Window) Alerts() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.alerts...)
}

// Dispatch fires ev at the window handlers and reports whether the default
// action was prevented.
func (w *Window) Dispatch(ev dom.Event) bool {
	return w.events.dispatch(ev)
}

// Listeners reports how many window handlers are attached for event.
func (w *Window) Listeners(event string) int {
	return w.events.count(event)
}

func (w *Window) On(event string, fn dom.Handler) dom.Release {
	return w.events.add(event, fn)
}

func (w *Window) Loaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

func (w *Window) ScrollY() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scrollY
}

func (w *Window) InnerHeight() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.innerHeight
}

func (w *Window) MatchMedia(query string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.media[query]
}

func (w *Window) ScrollTo(top float64, smooth bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scrolls = append(w.scrolls, ScrollCall{Top: top, Smooth: smooth})
}

func (w *Window) Alert(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.alerts = append(w.alerts, message)
}

func (w *Window) RequestFrame(fn func()) dom.Release {
	f := &frame{fn: fn}
	w.mu.Lock()
	w.frames = append(w.frames, f)
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		f.cancelled = true
		w.mu.Unlock()
	}
}

func (w *Window) Observe(threshold float64, fn func([]dom.IntersectionEntry)) dom.Observer {
	o := &observer{threshold: threshold, fn: fn, targets: make(map[dom.Element]bool)}
	w.mu.Lock()
	w.observers = append(w.observers, o)
	w.mu.Unlock()
	return o
}

type observer struct {
	mu        sync.Mutex
	threshold float64
	fn        func([]dom.IntersectionEntry)
	targets   map[dom.Element]bool
}

func (o *observer) watching(el dom.Element) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.targets[el]
}

func (o *observer) Observe(el dom.Element) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.targets[el] = true
}

func (o *observer) Unobserve(el dom.Element) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.targets, el)
}

func (o *observer) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.targets = make(map[dom.Element]bool)
}

// Clock is a manually advanced dom.Clock.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*timer
}

type timer struct {
	at        time.Time
	seq       int
	fn        func()
	cancelled bool
}

// NewClock returns a clock frozen at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) AfterFunc(d time.Duration, fn func()) dom.Release {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &timer{at: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.cancelled = true
	}
}

// Pending reports scheduled timers that have neither fired nor been stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, firing due timers in order. Timers
// scheduled by fired callbacks run too when they fall inside the window.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		sort.SliceStable(c.timers, func(i, j int) bool {
			if c.timers[i].at.Equal(c.timers[j].at) {
				return c.timers[i].seq < c.timers[j].seq
			}
			return c.timers[i].at.Before(c.timers[j].at)
		})
		var next *timer
		for i, t := range c.timers {
			if t.cancelled {
				continue
			}
			if t.at.After(target) {
				break
			}
			next = t
			c.timers = append(c.timers[:i:i], c.timers[i+1:]...)
			break
		}
		if next == nil {
			c.now = target
			c.timers = compact(c.timers)
			c.mu.Unlock()
			return
		}
		c.now = next.at
		c.mu.Unlock()
		next.fn()
	}
}

func compact(timers []*timer) []*timer {
	out := timers[:0]
	for _, t := range timers {
		if !t.cancelled {
			out = append(out, t)
		}
	}
	return out
}

// Runtime is a dom.Runtime backed by the in-memory doubles.
type Runtime struct {
	Doc   *Document
	Win   *Window
	Clock *Clock
}

// NewRuntime builds a runtime with an empty document, an unloaded window and
// a clock frozen at now.
func NewRuntime(now time.Time) *Runtime {
	return &Runtime{Doc: NewDocument(), Win: NewWindow(), Clock: NewClock(now)}
}

// DOM returns the runtime as the interface bundle the orchestrator consumes.
func (r *Runtime) DOM() dom.Runtime {
	return dom.Runtime{Document: r.Doc, Window: r.Win, Clock: r.Clock}
}
