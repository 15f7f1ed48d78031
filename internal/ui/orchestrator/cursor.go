package orchestrator

import (
	"math"
	"strconv"
	"sync"

	"github.com/Its-donkey/folio/internal/ui/dom"
	"github.com/Its-donkey/folio/internal/ui/selectors"
)

const (
	finePointerQuery = "(pointer: fine)"
	cursorScaled     = "translate(-50%, -50%) scale(1.5)"
	cursorResting    = "translate(-50%, -50%) scale(1)"
	outlineHoverTint = "rgba(100, 255, 218, 0.1)"
)

// setupCursor makes the dot follow the pointer on the next frame and the
// outline trail behind it. Devices without a fine pointer get neither.
func (o *Orchestrator) setupCursor() dom.Release {
	dot, outline := o.t.dot, o.t.outline
	if !o.win.MatchMedia(finePointerQuery) {
		dot.SetStyle("display", "none")
		outline.SetStyle("display", "none")
		return nil
	}

	var (
		mu   sync.Mutex
		x, y float64
	)
	throttle := newFrameThrottle(o.win, func() {
		mu.Lock()
		left, top := px(x), px(y)
		mu.Unlock()
		dot.SetStyle("left", left)
		dot.SetStyle("top", top)
		o.after(o.timing.CursorTrail, func() {
			outline.SetStyle("left", left)
			outline.SetStyle("top", top)
		})
	})

	releases := []dom.Release{
		o.doc.On("mousemove", func(ev dom.Event) {
			mu.Lock()
			x, y = ev.ClientX, ev.ClientY
			mu.Unlock()
			throttle.schedule()
		}),
		throttle.cancel,
	}

	for _, el := range o.doc.QueryAll(selectors.Interactive) {
		releases = append(releases,
			el.On("mouseenter", func(dom.Event) {
				dot.SetStyle("transform", cursorScaled)
				outline.SetStyle("transform", cursorScaled)
				outline.SetStyle("background-color", outlineHoverTint)
			}),
			el.On("mouseleave", func(dom.Event) {
				dot.SetStyle("transform", cursorResting)
				outline.SetStyle("transform", cursorResting)
				outline.SetStyle("background-color", "transparent")
			}),
		)
	}
	return releaseAll(releases...)
}

func px(v float64) string {
	return formatNumber(v) + "px"
}

// formatNumber renders v for a CSS value, rounded to three decimals and
// without a negative zero.
func formatNumber(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
