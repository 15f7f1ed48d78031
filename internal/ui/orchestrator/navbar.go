package orchestrator

import (
	"github.com/Its-donkey/folio/internal/ui/dom"
	"github.com/Its-donkey/folio/internal/ui/selectors"
)

// NavbarStyle is the inline style applied to the navbar for a scroll offset.
type NavbarStyle struct {
	Scrolled   bool
	Padding    string
	Background string
	Shadow     string
}

var (
	navbarResting = NavbarStyle{
		Padding:    "25px 0",
		Background: "rgba(10, 25, 47, 0.9)",
		Shadow:     "none",
	}
	navbarScrolled = NavbarStyle{
		Scrolled:   true,
		Padding:    "15px 0",
		Background: "rgba(10, 25, 47, 0.95)",
		Shadow:     "0 5px 20px rgba(0, 0, 0, 0.1)",
	}
)

// NavbarStyleFor returns the scrolled style strictly above threshold and the
// resting style otherwise.
func NavbarStyleFor(scrollY, threshold float64) NavbarStyle {
	if scrollY > threshold {
		return navbarScrolled
	}
	return navbarResting
}

func (o *Orchestrator) setupNavbar() dom.Release {
	hamburger, menu, navbar := o.t.hamburger, o.t.menu, o.t.navbar

	releases := []dom.Release{
		hamburger.On("click", func(dom.Event) {
			hamburger.ToggleClass("active")
			menu.ToggleClass("active")
		}),
	}
	for _, link := range o.doc.QueryAll(selectors.NavLink) {
		releases = append(releases, link.On("click", func(dom.Event) {
			hamburger.RemoveClass("active")
			menu.RemoveClass("active")
		}))
	}

	apply := func() {
		style := NavbarStyleFor(o.win.ScrollY(), o.timing.NavbarThreshold)
		navbar.SetStyle("padding", style.Padding)
		navbar.SetStyle("background-color", style.Background)
		navbar.SetStyle("box-shadow", style.Shadow)
	}
	apply()

	throttle := newFrameThrottle(o.win, apply)
	releases = append(releases,
		o.win.On("scroll", func(dom.Event) { throttle.schedule() }),
		throttle.cancel,
	)
	return releaseAll(releases...)
}
