package orchestrator

import (
	"sync"
	"time"

	"github.com/Its-donkey/folio/internal/ui/dom"
	"github.com/Its-donkey/folio/internal/ui/selectors"
)

// setupPreloader hides the loading overlay once the window has loaded and
// then releases the hero entrance animation.
func (o *Orchestrator) setupPreloader() dom.Release {
	var once sync.Once
	begin := func() {
		once.Do(func() {
			o.after(o.timing.PreloaderDelay, func() {
				hidePreloader(o.t.preloader)
				o.after(o.timing.HeroDelay, o.animateHero)
			})
		})
	}

	if o.win.Loaded() {
		begin()
		return nil
	}
	return o.win.On("load", func(dom.Event) { begin() })
}

func hidePreloader(el dom.Element) {
	el.SetStyle("opacity", "0")
	el.SetStyle("visibility", "hidden")
}

func (o *Orchestrator) animateHero() {
	o.after(o.timing.SubtitleDelay, func() {
		o.t.subtitle.AddClass("fade-in")
	})
	o.after(o.timing.DescriptionDelay, func() {
		o.t.desc.AddClass("slide-up")
		o.t.cta.AddClass("slide-up")
	})
	for i, word := range o.doc.QueryAll(selectors.Word) {
		o.after(time.Duration(i)*o.timing.WordStep, func() {
			word.SetStyle("opacity", "1")
			word.SetStyle("transform", "translateY(0)")
		})
	}
}
