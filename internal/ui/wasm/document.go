//go:build js && wasm

package wasm

import (
	"syscall/js"

	"github.com/Its-donkey/folio/internal/ui/dom"
)

type document struct {
	v js.Value
}

func (d *document) Query(selector string) dom.Element {
	v, err := querySelector(d.v, selector)
	if err != nil {
		return nil
	}
	return asElement(wrap(v))
}

func (d *document) QueryAll(selector string) []dom.Element {
	list, err := querySelectorAll(d.v, selector)
	if err != nil || !list.Truthy() {
		return nil
	}
	n := list.Length()
	out := make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		if el := wrap(list.Index(i)); el != nil {
			out = append(out, el)
		}
	}
	return out
}

func (d *document) ByID(id string) dom.Element {
	return asElement(wrap(d.v.Call("getElementById", id)))
}

func (d *document) On(event string, fn dom.Handler) dom.Release {
	return listen(d.v, event, fn)
}
