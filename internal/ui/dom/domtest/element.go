// Package domtest provides in-memory implementations of the dom capabilities
// for host-side tests.
package domtest

import (
	"sync"

	"github.com/Its-donkey/folio/internal/ui/dom"
)

type listener struct {
	id int
	fn dom.Handler
}

// listeners is a goroutine-safe event handler table.
type listeners struct {
	mu     sync.Mutex
	nextID int
	byType map[string][]listener
}

func (l *listeners) add(event string, fn dom.Handler) dom.Release {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.byType == nil {
		l.byType = make(map[string][]listener)
	}
	l.nextID++
	id := l.nextID
	l.byType[event] = append(l.byType[event], listener{id: id, fn: fn})
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		list := l.byType[event]
		for i, entry := range list {
			if entry.id == id {
				l.byType[event] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners) count(event string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byType[event])
}

// dispatch invokes every handler for ev.Type and reports whether any of them
// called PreventDefault.
func (l *listeners) dispatch(ev dom.Event) bool {
	l.mu.Lock()
	handlers := make([]dom.Handler, 0, len(l.byType[ev.Type]))
	for _, entry := range l.byType[ev.Type] {
		handlers = append(handlers, entry.fn)
	}
	l.mu.Unlock()

	var prevented bool
	ev.Prevent = func() { prevented = true }
	for _, fn := range handlers {
		fn(ev)
	}
	return prevented
}

// Element is an in-memory dom.Element.
type Element struct {
	mu        sync.Mutex
	id        string
	styles    map[string]string
	classes   map[string]bool
	attrs     map[string]string
	text      string
	value     string
	initial   string
	disabled  bool
	children  map[string]*Element
	fields    []*Element
	rect      dom.Rect
	offsetTop float64
	events    listeners
}

// NewElement returns an element with the given id and classes.
func NewElement(id string, classes ...string) *Element {
	el := &Element{
		id:       id,
		styles:   make(map[string]string),
		classes:  make(map[string]bool),
		attrs:    make(map[string]string),
		children: make(map[string]*Element),
	}
	for _, c := range classes {
		el.classes[c] = true
	}
	return el
}

// WithAttr sets an attribute and returns the element for chaining.
func (e *Element) WithAttr(name, value string) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attrs[name] = value
	return e
}

// WithText sets the initial text content.
func (e *Element) WithText(text string) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
	return e
}

// WithChild registers child as the result of Query(selector). Children that
// carry a value take part in Reset.
func (e *Element) WithChild(selector string, child *Element) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.children[selector] = child
	e.fields = append(e.fields, child)
	return e
}

// SetRect sets the bounding box reported by Rect.
func (e *Element) SetRect(top, bottom float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rect = dom.Rect{Top: top, Bottom: bottom}
}

// SetOffsetTop sets the document offset reported by OffsetTop.
func (e *Element) SetOffsetTop(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.offsetTop = v
}

// Dispatch fires event on the element and reports whether the default action
// was prevented.
func (e *Element) Dispatch(ev dom.Event) bool {
	if ev.Target == nil {
		ev.Target = e
	}
	return e.events.dispatch(ev)
}

// Listeners reports how many handlers are attached for event.
func (e *Element) Listeners(event string) int {
	return e.events.count(event)
}

func (e *Element) ID() string { return e.id }

func (e *Element) SetStyle(property, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.styles[property] = value
}

func (e *Element) Style(property string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.styles[property]
}

func (e *Element) AddClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.classes[name] = true
}

func (e *Element) RemoveClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.classes, name)
}

func (e *Element) ToggleClass(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.classes[name] {
		delete(e.classes, name)
		return false
	}
	e.classes[name] = true
	return true
}

func (e *Element) HasClass(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classes[name]
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

func (e *Element) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

func (e *Element) Attr(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.attrs[name]
	return v, ok
}

func (e *Element) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

func (e *Element) SetValue(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
}

func (e *Element) SetDisabled(disabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = disabled
}

func (e *Element) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

func (e *Element) Reset() {
	e.mu.Lock()
	fields := append([]*Element(nil), e.fields...)
	e.mu.Unlock()
	for _, f := range fields {
		f.mu.Lock()
		f.value = f.initial
		f.mu.Unlock()
	}
}

func (e *Element) Query(selector string) dom.Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	child, ok := e.children[selector]
	if !ok {
		return nil
	}
	return child
}

func (e *Element) Rect() dom.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rect
}

func (e *Element) OffsetTop() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offsetTop
}

func (e *Element) On(event string, fn dom.Handler) dom.Release {
	return e.events.add(event, fn)
}
