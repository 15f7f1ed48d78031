//go:build js && wasm

package wasm

import (
	"fmt"
	"sync"
	"syscall/js"

	"github.com/Its-donkey/folio/internal/ui/dom"
)

// element wraps a DOM node. js.Value is not comparable, so the wrapper is
// always handled by pointer and identity is the pointer.
type element struct {
	v js.Value
}

func wrap(v js.Value) *element {
	if !v.Truthy() {
		return nil
	}
	return &element{v: v}
}

// asElement keeps a nil *element from becoming a non-nil interface.
func asElement(el *element) dom.Element {
	if el == nil {
		return nil
	}
	return el
}

func (e *element) ID() string { return e.v.Get("id").String() }

func (e *element) SetStyle(property, value string) {
	e.v.Get("style").Call("setProperty", property, value)
}

func (e *element) Style(property string) string {
	return e.v.Get("style").Call("getPropertyValue", property).String()
}

func (e *element) AddClass(name string)    { e.v.Get("classList").Call("add", name) }
func (e *element) RemoveClass(name string) { e.v.Get("classList").Call("remove", name) }

func (e *element) ToggleClass(name string) bool {
	return e.v.Get("classList").Call("toggle", name).Bool()
}

func (e *element) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

func (e *element) SetText(text string) { e.v.Set("textContent", text) }
func (e *element) Text() string        { return e.v.Get("textContent").String() }

func (e *element) Attr(name string) (string, bool) {
	v := e.v.Call("getAttribute", name)
	if v.Type() != js.TypeString {
		return "", false
	}
	return v.String(), true
}

func (e *element) Value() string {
	v := e.v.Get("value")
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

func (e *element) SetValue(value string)      { e.v.Set("value", value) }
func (e *element) SetDisabled(disabled bool) { e.v.Set("disabled", disabled) }
func (e *element) Disabled() bool            { return e.v.Get("disabled").Truthy() }

func (e *element) Reset() {
	if e.v.Get("tagName").String() == "FORM" {
		e.v.Call("reset")
	}
}

func (e *element) Query(selector string) dom.Element {
	v, err := querySelector(e.v, selector)
	if err != nil {
		return nil
	}
	return asElement(wrap(v))
}

func (e *element) Rect() dom.Rect {
	r := e.v.Call("getBoundingClientRect")
	return dom.Rect{Top: r.Get("top").Float(), Bottom: r.Get("bottom").Float()}
}

func (e *element) OffsetTop() float64 { return e.v.Get("offsetTop").Float() }

func (e *element) On(event string, fn dom.Handler) dom.Release {
	return listen(e.v, event, fn)
}

// listen adds an event listener and returns its removal.
func listen(target js.Value, event string, fn dom.Handler) dom.Release {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			fn(dom.Event{Type: event})
			return nil
		}
		fn(toEvent(event, args[0]))
		return nil
	})
	target.Call("addEventListener", event, cb)
	var once sync.Once
	return func() {
		once.Do(func() {
			target.Call("removeEventListener", event, cb)
			cb.Release()
		})
	}
}

func toEvent(typ string, ev js.Value) dom.Event {
	out := dom.Event{
		Type:    typ,
		Prevent: func() { ev.Call("preventDefault") },
	}
	if x := ev.Get("clientX"); x.Type() == js.TypeNumber {
		out.ClientX = x.Float()
	}
	if y := ev.Get("clientY"); y.Type() == js.TypeNumber {
		out.ClientY = y.Float()
	}
	if p := ev.Get("persisted"); p.Type() == js.TypeBoolean {
		out.Persisted = p.Bool()
	}
	if target := wrap(ev.Get("target")); target != nil {
		out.Target = target
	}
	return out
}

// querySelector converts the SyntaxError thrown for invalid selectors into
// an error.
func querySelector(root js.Value, selector string) (v js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query %q: %v", selector, r)
		}
	}()
	return root.Call("querySelector", selector), nil
}

func querySelectorAll(root js.Value, selector string) (list js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query all %q: %v", selector, r)
		}
	}()
	return root.Call("querySelectorAll", selector), nil
}
