//go:build js && wasm

package wasm

import (
	"sync"
	"syscall/js"
	"time"

	"github.com/Its-donkey/folio/internal/ui/dom"
)

type window struct {
	v   js.Value
	doc js.Value
}

func (w *window) On(event string, fn dom.Handler) dom.Release {
	return listen(w.v, event, fn)
}

func (w *window) Loaded() bool {
	return w.doc.Get("readyState").String() == "complete"
}

func (w *window) ScrollY() float64 {
	if y := w.v.Get("scrollY"); y.Type() == js.TypeNumber {
		return y.Float()
	}
	return w.v.Get("pageYOffset").Float()
}

func (w *window) InnerHeight() float64 { return w.v.Get("innerHeight").Float() }

func (w *window) MatchMedia(query string) bool {
	if w.v.Get("matchMedia").Type() != js.TypeFunction {
		return false
	}
	return w.v.Call("matchMedia", query).Get("matches").Bool()
}

func (w *window) ScrollTo(top float64, smooth bool) {
	behavior := "auto"
	if smooth {
		behavior = "smooth"
	}
	w.v.Call("scrollTo", map[string]any{"top": top, "behavior": behavior})
}

func (w *window) Alert(message string) { w.v.Call("alert", message) }

func (w *window) RequestFrame(fn func()) dom.Release {
	var once sync.Once
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		once.Do(cb.Release)
		fn()
		return nil
	})
	id := w.v.Call("requestAnimationFrame", cb)
	return func() {
		once.Do(func() {
			w.v.Call("cancelAnimationFrame", id)
			cb.Release()
		})
	}
}

func (w *window) Observe(threshold float64, fn func([]dom.IntersectionEntry)) dom.Observer {
	ctor := w.v.Get("IntersectionObserver")
	if ctor.Type() != js.TypeFunction {
		return &eagerObserver{fn: fn}
	}
	o := &observer{}
	o.cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		fn(o.entries(args[0]))
		return nil
	})
	o.v = ctor.New(o.cb, map[string]any{"threshold": threshold})
	return o
}

// observer adapts IntersectionObserver. Entries report the wrapper that was
// passed to Observe so callers can key state by element.
type observer struct {
	mu       sync.Mutex
	v        js.Value
	cb       js.Func
	watching []*element
	closed   bool
}

func (o *observer) entries(list js.Value) []dom.IntersectionEntry {
	o.mu.Lock()
	watching := append([]*element(nil), o.watching...)
	o.mu.Unlock()

	n := list.Length()
	out := make([]dom.IntersectionEntry, 0, n)
	for i := 0; i < n; i++ {
		entry := list.Index(i)
		target := entry.Get("target")
		for _, el := range watching {
			if el.v.Equal(target) {
				out = append(out, dom.IntersectionEntry{
					Target:       el,
					Intersecting: entry.Get("isIntersecting").Bool(),
					Ratio:        entry.Get("intersectionRatio").Float(),
				})
				break
			}
		}
	}
	return out
}

func (o *observer) Observe(el dom.Element) {
	e, ok := el.(*element)
	if !ok || e == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.watching = append(o.watching, e)
	o.v.Call("observe", e.v)
}

func (o *observer) Unobserve(el dom.Element) {
	e, ok := el.(*element)
	if !ok || e == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	for i, w := range o.watching {
		if w == e {
			o.watching = append(o.watching[:i], o.watching[i+1:]...)
			break
		}
	}
	o.v.Call("unobserve", e.v)
}

func (o *observer) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.watching = nil
	o.v.Call("disconnect")
	o.cb.Release()
}

// eagerObserver stands in on browsers without IntersectionObserver and
// reports every element as fully visible.
type eagerObserver struct {
	fn func([]dom.IntersectionEntry)
}

func (o *eagerObserver) Observe(el dom.Element) {
	o.fn([]dom.IntersectionEntry{{Target: el, Intersecting: true, Ratio: 1}})
}

func (o *eagerObserver) Unobserve(dom.Element) {}
func (o *eagerObserver) Disconnect()           {}

// clock schedules callbacks on the browser event loop.
type clock struct {
	v js.Value
}

func (c *clock) Now() time.Time { return time.Now() }

func (c *clock) AfterFunc(d time.Duration, fn func()) dom.Release {
	var once sync.Once
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		once.Do(cb.Release)
		fn()
		return nil
	})
	id := c.v.Call("setTimeout", cb, d.Milliseconds())
	return func() {
		once.Do(func() {
			c.v.Call("clearTimeout", id)
			cb.Release()
		})
	}
}

// Runtime returns the browser implementation of the interaction layer's
// capabilities.
func Runtime() dom.Runtime {
	global := js.Global()
	doc := global.Get("document")
	return dom.Runtime{
		Document: &document{v: doc},
		Window:   &window{v: global, doc: doc},
		Clock:    &clock{v: global},
	}
}
