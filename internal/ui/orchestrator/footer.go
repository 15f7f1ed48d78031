package orchestrator

import "strconv"

// setFooterYear stamps the current year once; it is never refreshed.
func (o *Orchestrator) setFooterYear() {
	if o.t.year == nil {
		return
	}
	o.t.year.SetText(strconv.Itoa(o.clock.Now().Year()))
}
