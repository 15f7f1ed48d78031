package orchestrator

import "testing"

func TestNavbarStyleForIsTwoStateAroundThreshold(t *testing.T) {
	cases := []struct {
		scroll   float64
		scrolled bool
	}{
		{0, false},
		{-20, false},
		{99.9, false},
		{100, false},
		{100.01, true},
		{101, true},
		{5000, true},
	}
	for _, tc := range cases {
		got := NavbarStyleFor(tc.scroll, 100)
		if got.Scrolled != tc.scrolled {
			t.Fatalf("scroll %v: expected scrolled=%v, got %+v", tc.scroll, tc.scrolled, got)
		}
		want := navbarResting
		if tc.scrolled {
			want = navbarScrolled
		}
		if got != want {
			t.Fatalf("scroll %v: expected %+v, got %+v", tc.scroll, want, got)
		}
	}
}

func TestNavbarToggleAndLinkClose(t *testing.T) {
	p := newTestPage()
	p.start(t, nil)

	p.hamburger.Dispatch(domEvent("click"))
	if !p.hamburger.HasClass("active") || !p.menu.HasClass("active") {
		t.Fatalf("expected menu opened")
	}
	p.hamburger.Dispatch(domEvent("click"))
	if p.hamburger.HasClass("active") || p.menu.HasClass("active") {
		t.Fatalf("expected menu closed on second toggle")
	}

	p.hamburger.Dispatch(domEvent("click"))
	p.navLinks[1].Dispatch(domEvent("click"))
	if p.hamburger.HasClass("active") || p.menu.HasClass("active") {
		t.Fatalf("expected nav link to close menu")
	}
	p.navLinks[0].Dispatch(domEvent("click"))
	if p.hamburger.HasClass("active") || p.menu.HasClass("active") {
		t.Fatalf("nav link must never open the menu")
	}
}

func TestNavbarScrollStyleIsFrameCoalesced(t *testing.T) {
	p := newTestPage()
	p.start(t, nil)

	if got := p.navbar.Style("padding"); got != "25px 0" {
		t.Fatalf("expected resting style at start, got %q", got)
	}

	p.rt.Win.Scroll(50)
	p.rt.Win.Scroll(150)
	p.rt.Win.Scroll(180)
	// One frame for the navbar and one for the scroll effects.
	if got := p.rt.Win.PendingFrames(); got != 2 {
		t.Fatalf("expected 2 coalesced frames, got %d", got)
	}
	p.rt.Win.FlushFrames()
	if p.navbar.Style("padding") != "15px 0" ||
		p.navbar.Style("background-color") != "rgba(10, 25, 47, 0.95)" ||
		p.navbar.Style("box-shadow") != "0 5px 20px rgba(0, 0, 0, 0.1)" {
		t.Fatalf("expected scrolled style, got padding=%q bg=%q shadow=%q",
			p.navbar.Style("padding"), p.navbar.Style("background-color"), p.navbar.Style("box-shadow"))
	}

	p.rt.Win.Scroll(100)
	p.rt.Win.FlushFrames()
	if p.navbar.Style("padding") != "25px 0" || p.navbar.Style("box-shadow") != "none" {
		t.Fatalf("expected resting style at exactly 100px")
	}
}
