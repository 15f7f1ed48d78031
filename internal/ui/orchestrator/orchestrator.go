// Package orchestrator wires the portfolio page's interactive behaviour onto
// an injected DOM runtime: preloader gating, the custom cursor, navigation,
// reveal and progress animations, the contact form, scroll effects, the
// footer year and in-page anchor scrolling.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Its-donkey/folio/internal/contact"
	"github.com/Its-donkey/folio/internal/ui/dom"
	"github.com/Its-donkey/folio/internal/ui/selectors"
)

// ErrMissingTarget is wrapped by *MissingTargetError.
var ErrMissingTarget = errors.New("orchestrator: missing ui target")

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("orchestrator: already started")

// MissingTargetError lists the selectors that matched nothing at wiring time.
type MissingTargetError struct {
	Selectors []string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("orchestrator: missing ui targets: %s", strings.Join(e.Selectors, ", "))
}

func (e *MissingTargetError) Unwrap() error { return ErrMissingTarget }

// Logger is the subset of *logging.Logger used here.
type Logger interface {
	Info(category, message string, fields map[string]any)
	Warn(category, message string, fields map[string]any)
	Error(category, message string, err error, fields map[string]any)
}

type nopLogger struct{}

func (nopLogger) Info(string, string, map[string]any)         {}
func (nopLogger) Warn(string, string, map[string]any)         {}
func (nopLogger) Error(string, string, error, map[string]any) {}

// Timing holds the delays, thresholds and coefficients of every behaviour.
type Timing struct {
	PreloaderDelay    time.Duration
	HeroDelay         time.Duration
	SubtitleDelay     time.Duration
	DescriptionDelay  time.Duration
	WordStep          time.Duration
	CursorTrail       time.Duration
	ProgressDelay     time.Duration
	SubmitTimeout     time.Duration
	NavbarThreshold   float64
	HeaderOffset      float64
	RevealThreshold   float64
	ProgressThreshold float64
	ParallaxBase      float64
	ParallaxStep      float64
	SectionFalloff    float64
}

// DefaultTiming returns the values the page was designed around.
func DefaultTiming() Timing {
	return Timing{
		PreloaderDelay:    1200 * time.Millisecond,
		HeroDelay:         300 * time.Millisecond,
		SubtitleDelay:     300 * time.Millisecond,
		DescriptionDelay:  600 * time.Millisecond,
		WordStep:          100 * time.Millisecond,
		CursorTrail:       80 * time.Millisecond,
		ProgressDelay:     300 * time.Millisecond,
		SubmitTimeout:     10 * time.Second,
		NavbarThreshold:   100,
		HeaderOffset:      80,
		RevealThreshold:   0.1,
		ProgressThreshold: 0.5,
		ParallaxBase:      0.2,
		ParallaxStep:      0.1,
		SectionFalloff:    0.5,
	}
}

// withDefaults fills every zero field from DefaultTiming.
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	setDuration := func(v *time.Duration, def time.Duration) {
		if *v == 0 {
			*v = def
		}
	}
	setFloat := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	setDuration(&t.PreloaderDelay, d.PreloaderDelay)
	setDuration(&t.HeroDelay, d.HeroDelay)
	setDuration(&t.SubtitleDelay, d.SubtitleDelay)
	setDuration(&t.DescriptionDelay, d.DescriptionDelay)
	setDuration(&t.WordStep, d.WordStep)
	setDuration(&t.CursorTrail, d.CursorTrail)
	setDuration(&t.ProgressDelay, d.ProgressDelay)
	setDuration(&t.SubmitTimeout, d.SubmitTimeout)
	setFloat(&t.NavbarThreshold, d.NavbarThreshold)
	setFloat(&t.HeaderOffset, d.HeaderOffset)
	setFloat(&t.RevealThreshold, d.RevealThreshold)
	setFloat(&t.ProgressThreshold, d.ProgressThreshold)
	setFloat(&t.ParallaxBase, d.ParallaxBase)
	setFloat(&t.ParallaxStep, d.ParallaxStep)
	setFloat(&t.SectionFalloff, d.SectionFalloff)
	return t
}

// Options configures an Orchestrator.
type Options struct {
	Runtime   dom.Runtime
	Submitter contact.Submitter
	Logger    Logger
	// Zero fields of Timing take their DefaultTiming value.
	Timing Timing
}

// targets are the single elements resolved once at construction.
type targets struct {
	preloader dom.Element
	dot       dom.Element
	outline   dom.Element
	hamburger dom.Element
	menu      dom.Element
	navbar    dom.Element
	subtitle  dom.Element
	desc      dom.Element
	cta       dom.Element
	form      dom.Element
	submit    dom.Element
	name      dom.Element
	email     dom.Element
	subject   dom.Element
	message   dom.Element
	year      dom.Element
}

// Orchestrator owns every subscription made against the page.
type Orchestrator struct {
	doc       dom.Document
	win       dom.Window
	clock     dom.Clock
	submitter contact.Submitter
	log       Logger
	timing    Timing
	t         targets

	mu        sync.Mutex
	started   bool
	stopped   bool
	pending   bool
	ctx       context.Context
	cancel    context.CancelFunc
	disposers []dom.Release
	timers    map[int]dom.Release
	timerSeq  int
	inflight  sync.WaitGroup
}

// New resolves the required page targets. A *MissingTargetError is returned
// when any of them is absent.
func New(opts Options) (*Orchestrator, error) {
	rt := opts.Runtime
	if rt.Document == nil || rt.Window == nil || rt.Clock == nil {
		return nil, errors.New("orchestrator: runtime requires document, window and clock")
	}
	timing := opts.Timing.withDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	submitter := opts.Submitter
	if submitter == nil {
		submitter = contact.Simulated{Delay: contact.DefaultSimulatedDelay, Clock: rt.Clock}
	}

	t, err := resolveTargets(rt.Document)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		doc:       rt.Document,
		win:       rt.Window,
		clock:     rt.Clock,
		submitter: submitter,
		log:       logger,
		timing:    timing,
		t:         t,
		timers:    make(map[int]dom.Release),
	}, nil
}

func resolveTargets(doc dom.Document) (targets, error) {
	var missing []string
	need := func(selector string) dom.Element {
		el := doc.Query(selector)
		if el == nil {
			missing = append(missing, selector)
		}
		return el
	}

	t := targets{
		preloader: need(selectors.Preloader),
		dot:       need(selectors.CursorDot),
		outline:   need(selectors.CursorOutline),
		hamburger: need(selectors.Hamburger),
		menu:      need(selectors.NavMenu),
		navbar:    need(selectors.Navbar),
		subtitle:  need(selectors.HeroSubtitle),
		desc:      need(selectors.HeroDesc),
		cta:       need(selectors.HeroCTA),
		year:      doc.Query(selectors.CurrentYear),
	}

	for _, bar := range doc.QueryAll(selectors.ProgressBar) {
		if bar.Query(selectors.ProgressFill) == nil {
			missing = append(missing, selectors.ProgressBar+" "+selectors.ProgressFill)
			break
		}
	}

	if form := doc.Query(selectors.ContactForm); form != nil {
		t.form = form
		t.name = need(selectors.NameField)
		t.email = need(selectors.EmailField)
		t.subject = need(selectors.SubjectField)
		t.message = need(selectors.MessageField)
		t.submit = form.Query(selectors.SubmitButton)
		if t.submit == nil {
			missing = append(missing, selectors.ContactForm+" "+selectors.SubmitButton)
		}
	}

	if len(missing) > 0 {
		return targets{}, &MissingTargetError{Selectors: missing}
	}
	return t, nil
}

// Start wires every behaviour in order. ctx bounds in-flight submissions;
// cancelling it has the same effect on them as Stop.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.started = true
	o.ctx, o.cancel = context.WithCancel(ctx)
	o.mu.Unlock()

	o.track(o.setupPreloader())
	o.track(o.setupCursor())
	o.track(o.setupNavbar())
	o.track(o.setupReveal())
	o.track(o.setupProgress())
	o.track(o.setupContactForm())
	o.track(o.setupScrollEffects())
	o.setFooterYear()
	o.track(o.setupAnchors())

	o.log.Info("ui", "interactions wired", nil)
	return nil
}

// Stop releases every listener, observer and pending timer and cancels any
// in-flight submission. It waits for the submission goroutine to return.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped || !o.started {
		o.stopped = true
		o.mu.Unlock()
		return
	}
	o.stopped = true
	o.cancel()
	disposers := o.disposers
	o.disposers = nil
	timers := o.timers
	o.timers = make(map[int]dom.Release)
	o.mu.Unlock()

	for _, release := range timers {
		release()
	}
	for i := len(disposers) - 1; i >= 0; i-- {
		disposers[i]()
	}
	o.inflight.Wait()
}

func (o *Orchestrator) track(release dom.Release) {
	if release == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		release()
		return
	}
	o.disposers = append(o.disposers, release)
}

// after schedules fn on the clock; the timer is stopped by Stop.
func (o *Orchestrator) after(d time.Duration, fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return
	}
	o.timerSeq++
	id := o.timerSeq
	o.timers[id] = o.clock.AfterFunc(d, func() {
		o.mu.Lock()
		_, live := o.timers[id]
		delete(o.timers, id)
		o.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Degrade leaves the page readable when wiring failed: the preloader is
// hidden and body is marked so styles can drop effect-dependent states.
func Degrade(doc dom.Document) {
	if doc == nil {
		return
	}
	if preloader := doc.Query(selectors.Preloader); preloader != nil {
		hidePreloader(preloader)
	}
	if body := doc.Query("body"); body != nil {
		body.AddClass("ui-degraded")
	}
}

func releaseAll(releases ...dom.Release) dom.Release {
	return func() {
		for _, r := range releases {
			if r != nil {
				r()
			}
		}
	}
}
