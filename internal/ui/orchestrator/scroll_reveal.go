package orchestrator

import (
	"github.com/Its-donkey/folio/internal/ui/dom"
	"github.com/Its-donkey/folio/internal/ui/selectors"
)

func (o *Orchestrator) setupReveal() dom.Release {
	return o.observeOnce(o.doc.QueryAll(selectors.Reveal), o.timing.RevealThreshold, func(el dom.Element) {
		el.AddClass("appear")
	})
}
