package orchestrator

import (
	"math"

	"github.com/Its-donkey/folio/internal/ui/dom"
	"github.com/Its-donkey/folio/internal/ui/selectors"
)

// ParallaxOffset is the vertical translation of the shape at index for a
// scroll offset: -(scroll × (base + index × step)).
func ParallaxOffset(scrollY float64, index int, base, step float64) float64 {
	speed := base + float64(index)*step
	return -(scrollY * speed)
}

// SectionOpacity fades a section by its distance from the viewport top. The
// second result is false when the section is outside the viewport and
// should be left unchanged.
func SectionOpacity(rect dom.Rect, viewport, falloff float64) (float64, bool) {
	if viewport <= 0 || !(rect.Top < viewport && rect.Bottom > 0) {
		return 0, false
	}
	return 1 - (math.Abs(rect.Top)/viewport)*falloff, true
}

func (o *Orchestrator) setupScrollEffects() dom.Release {
	shapes := o.doc.QueryAll(selectors.Shape)
	sections := o.doc.QueryAll(selectors.Section)
	if len(shapes) == 0 && len(sections) == 0 {
		return nil
	}

	throttle := newFrameThrottle(o.win, func() {
		scrolled := o.win.ScrollY()
		for i, shape := range shapes {
			y := ParallaxOffset(scrolled, i, o.timing.ParallaxBase, o.timing.ParallaxStep)
			shape.SetStyle("transform", "translateY("+px(y)+")")
		}
		viewport := o.win.InnerHeight()
		for _, section := range sections {
			if opacity, ok := SectionOpacity(section.Rect(), viewport, o.timing.SectionFalloff); ok {
				section.SetStyle("opacity", formatNumber(opacity))
			}
		}
	})
	return releaseAll(
		o.win.On("scroll", func(dom.Event) { throttle.schedule() }),
		throttle.cancel,
	)
}
