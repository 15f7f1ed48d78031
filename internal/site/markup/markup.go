// Package markup checks rendered pages against the elements the browser
// interaction layer attaches to.
package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Its-donkey/folio/internal/ui/orchestrator"
	"github.com/Its-donkey/folio/internal/ui/selectors"
	"github.com/PuerkitoBio/goquery"
)

// ErrContractBroken wraps every verification failure.
var ErrContractBroken = errors.New("markup: contract broken")

// Report lists what a rendered page is missing.
type Report struct {
	// Missing holds selectors that matched nothing.
	Missing []string
	// Problems holds elements that exist but are unusable.
	Problems []string
}

// OK reports whether the page satisfied the contract.
func (r Report) OK() bool { return len(r.Missing) == 0 && len(r.Problems) == 0 }

func (r Report) Error() string {
	var parts []string
	if len(r.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(r.Missing, ", "))
	}
	parts = append(parts, r.Problems...)
	return strings.Join(parts, "; ")
}

func (r Report) Unwrap() error { return ErrContractBroken }

// Verify parses html and checks it. It returns a Report error when anything
// is missing.
func Verify(html io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(html)
	if err != nil {
		return fmt.Errorf("markup: parse: %w", err)
	}
	report := Inspect(doc)
	if !report.OK() {
		return report
	}
	return nil
}

// Inspect checks an already parsed document.
func Inspect(doc *goquery.Document) Report {
	var r Report
	need := func(sel *goquery.Selection, selector string) *goquery.Selection {
		found := sel.Find(selector)
		if found.Length() == 0 {
			r.Missing = append(r.Missing, selector)
		}
		return found
	}

	for _, selector := range selectors.Required {
		need(doc.Selection, selector)
	}
	need(doc.Selection, selectors.CurrentYear)

	form := need(doc.Selection, selectors.ContactForm)
	if form.Length() > 0 {
		for _, selector := range selectors.ContactFields {
			need(form, selector)
		}
		if form.Find(selectors.SubmitButton).Length() == 0 {
			r.Missing = append(r.Missing, selectors.ContactForm+" "+selectors.SubmitButton)
		}
	}

	doc.Find(selectors.ProgressBar).Each(func(i int, bar *goquery.Selection) {
		if bar.Find(selectors.ProgressFill).Length() == 0 {
			r.Problems = append(r.Problems, fmt.Sprintf("progress bar %d has no %s", i, selectors.ProgressFill))
		}
		raw, ok := bar.Attr(selectors.ProgressTarget)
		if !ok {
			r.Problems = append(r.Problems, fmt.Sprintf("progress bar %d has no %s", i, selectors.ProgressTarget))
			return
		}
		if _, err := orchestrator.ParseProgress(raw); err != nil {
			r.Problems = append(r.Problems, fmt.Sprintf("progress bar %d: %v", i, err))
		}
	})

	doc.Find(selectors.InPageAnchor).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		id := strings.TrimPrefix(href, "#")
		if id == "" {
			return
		}
		if doc.Find("#"+id).Length() == 0 {
			r.Problems = append(r.Problems, fmt.Sprintf("anchor %q has no target", href))
		}
	})
	return r
}
