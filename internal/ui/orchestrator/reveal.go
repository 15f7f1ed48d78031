package orchestrator

import (
	"sync"

	"github.com/Its-donkey/folio/internal/ui/dom"
)

// observeOnce watches els and calls fire the first time each one intersects.
// The element is unobserved before fire runs, so later entries for it are
// ignored even if the observer still delivers them.
func (o *Orchestrator) observeOnce(els []dom.Element, threshold float64, fire func(dom.Element)) dom.Release {
	if len(els) == 0 {
		return nil
	}
	var (
		mu       sync.Mutex
		fired    = make(map[dom.Element]bool, len(els))
		observer dom.Observer
	)
	observer = o.win.Observe(threshold, func(entries []dom.IntersectionEntry) {
		for _, entry := range entries {
			if !entry.Intersecting || entry.Target == nil {
				continue
			}
			mu.Lock()
			done := fired[entry.Target]
			fired[entry.Target] = true
			mu.Unlock()
			if done {
				continue
			}
			observer.Unobserve(entry.Target)
			fire(entry.Target)
		}
	})
	for _, el := range els {
		observer.Observe(el)
	}
	return observer.Disconnect
}
