// Package narrative renders the deterministic text summary of an event.
//
// Every sentence comes from a fixed table keyed by the severity and
// disruption levels; the only free value is the acreage numeral in the
// severity sentence. Identical inputs always produce byte-identical
// text, which the indexer relies on for deduplication.
package narrative

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// DefaultLabel is used when a record carries no usable name.
const DefaultLabel = "Wildfire event"

// labelFields are tried in order.
var labelFields = []string{"name", "declarationTitle", "source_incident_name"}

var printer = message.NewPrinter(language.English)

// Label picks the display name for a record.
func Label(rec domain.Record) string {
	for _, field := range labelFields {
		if v, ok := rec.Get(field); ok {
			return strings.TrimSpace(v)
		}
	}
	return DefaultLabel
}

// Render builds the narrative for one event. Levels outside the known
// set are treated as low so the output is never empty.
func Render(label string, fs domain.FeatureSet, c domain.Classification) string {
	sev := normalise(c.Severity)
	dis := normalise(c.Disruption)

	if strings.TrimSpace(label) == "" {
		label = DefaultLabel
	}

	sentences := []string{
		severitySummary(sev, fs.AcreageOrZero()),
		housingImpacts[dis],
		timelines[pair{sev, dis}],
		insuranceGuidance[pair{sev, dis}],
	}
	return "[" + label + "] " + strings.Join(sentences, " ")
}

// Narrate fills in the label and narrative for an event.
func Narrate(ev *domain.Event) {
	ev.Label = Label(ev.Record)
	ev.Narrative = Render(ev.Label, ev.Features, ev.Classification)
}

func severitySummary(sev domain.Level, acres float64) string {
	tmpl := severitySummaries[sev]
	if !tmpl.Grouped {
		return fmt.Sprintf(tmpl.Measured, fmt.Sprintf("%.0f", acres))
	}
	if acres == 0 {
		return tmpl.Unmeasured
	}
	return fmt.Sprintf(tmpl.Measured, printer.Sprintf("%.0f", acres))
}

func normalise(l domain.Level) domain.Level {
	if l.IsValid() {
		return l
	}
	return domain.LevelLow
}
