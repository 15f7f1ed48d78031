// Package selectors names the elements the portfolio page must render for the
// browser interaction layer to attach to.
package selectors

const (
	Preloader      = ".preloader"
	CursorDot      = ".cursor-dot"
	CursorOutline  = ".cursor-outline"
	Hamburger      = ".hamburger"
	NavMenu        = ".nav-menu"
	NavLink        = ".nav-link"
	Navbar         = ".navbar"
	HeroSubtitle   = ".hero-subtitle"
	HeroDesc       = ".hero-description"
	HeroCTA        = ".hero-cta"
	Word           = ".word"
	Reveal         = ".fade-in, .slide-up"
	ProgressBar    = ".progress-bar"
	ProgressFill   = ".progress-fill"
	Shape          = ".shape"
	Section        = ".section"
	ContactForm    = "#contactForm"
	SubmitButton   = `button[type="submit"]`
	NameField      = "#name"
	EmailField     = "#email"
	SubjectField   = "#subject"
	MessageField   = "#message"
	CurrentYear    = "#currentYear"
	InPageAnchor   = `a[href^="#"]`
	Interactive    = "a, button, .skill-card, .software-item, .floating-card, .social-link"
	ProgressTarget = "data-width"
)

// Required lists the single elements that must be present for startup wiring
// to succeed.
var Required = []string{
	Preloader,
	CursorDot,
	CursorOutline,
	Hamburger,
	NavMenu,
	Navbar,
	HeroSubtitle,
	HeroDesc,
	HeroCTA,
}

// ContactFields are required once a contact form is rendered.
var ContactFields = []string{
	NameField,
	EmailField,
	SubjectField,
	MessageField,
}
