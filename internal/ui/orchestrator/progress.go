package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Its-donkey/folio/internal/ui/dom"
	"github.com/Its-donkey/folio/internal/ui/selectors"
)

// ParseProgress reads a data-width value as a percentage in [0, 100].
func ParseProgress(raw string) (float64, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	if raw == "" {
		return 0, fmt.Errorf("progress: empty width")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("progress: parse width %q: %w", raw, err)
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("progress: width %v outside 0..100", v)
	}
	return v, nil
}

// setupProgress fills each bar to its declared width after it is half
// visible.
func (o *Orchestrator) setupProgress() dom.Release {
	return o.observeOnce(o.doc.QueryAll(selectors.ProgressBar), o.timing.ProgressThreshold, func(bar dom.Element) {
		fill := bar.Query(selectors.ProgressFill)
		raw, _ := bar.Attr(selectors.ProgressTarget)
		pct, err := ParseProgress(raw)
		if err != nil {
			o.log.Warn("ui", "skipping progress bar", map[string]any{"id": bar.ID(), "error": err.Error()})
			return
		}
		width := strconv.FormatFloat(pct, 'f', -1, 64) + "%"
		o.after(o.timing.ProgressDelay, func() {
			fill.SetStyle("width", width)
		})
	})
}
