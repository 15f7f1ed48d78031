package orchestrator

import (
	"strings"

	"github.com/Its-donkey/folio/internal/ui/dom"
	"github.com/Its-donkey/folio/internal/ui/selectors"
)

// setupAnchors replaces jumps to in-page anchors with a smooth scroll that
// leaves room for the fixed header.
func (o *Orchestrator) setupAnchors() dom.Release {
	var releases []dom.Release
	for _, anchor := range o.doc.QueryAll(selectors.InPageAnchor) {
		releases = append(releases, anchor.On("click", func(ev dom.Event) {
			ev.PreventDefault()
			href, _ := anchor.Attr("href")
			href = strings.TrimSpace(href)
			if href == "" || href == "#" {
				return
			}
			target := o.doc.Query(href)
			if target == nil {
				return
			}
			o.win.ScrollTo(target.OffsetTop()-o.timing.HeaderOffset, true)
		}))
	}
	return releaseAll(releases...)
}
