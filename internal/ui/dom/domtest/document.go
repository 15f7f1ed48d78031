package domtest

import (
	"sync"

	"github.com/Its-donkey/folio/internal/ui/dom"
)

// Document is an in-memory dom.Document keyed by selector strings.
type Document struct {
	mu     sync.Mutex
	nodes  map[string][]*Element
	events listeners
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{nodes: make(map[string][]*Element)}
}

// Add registers elements as matches for selector. Elements with an id are
// also reachable through ByID and "#id".
func (d *Document) Add(selector string, els ...*Element) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nodes[selector] = append(d.nodes[selector], els...)
	for _, el := range els {
		if el.id != "" && selector != "#"+el.id {
			d.nodes["#"+el.id] = append(d.nodes["#"+el.id], el)
		}
	}
	return d
}

// Dispatch fires a document-level event.
func (d *Document) Dispatch(ev dom.Event) bool {
	return d.events.dispatch(ev)
}

// Listeners reports how many document handlers are attached for event.
func (d *Document) Listeners(event string) int {
	return d.events.count(event)
}

func (d *Document) Query(selector string) dom.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if list := d.nodes[selector]; len(list) > 0 {
		return list[0]
	}
	return nil
}

func (d *Document) QueryAll(selector string) []dom.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := d.nodes[selector]
	out := make([]dom.Element, 0, len(list))
	for _, el := range list {
		out = append(out, el)
	}
	return out
}

func (d *Document) ByID(id string) dom.Element {
	return d.Query("#" + id)
}

func (d *Document) On(event string, fn dom.Handler) dom.Release {
	return d.events.add(event, fn)
}
