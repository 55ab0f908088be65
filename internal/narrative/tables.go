package narrative

import "github.com/sipneat/wildfire-narratives/internal/core/domain"

// summaryTemplate renders the severity sentence. Measured receives the
// formatted numeral. Grouped templates use digit grouping and fall back
// to Unmeasured when the acreage is zero; the low template always shows
// the numeral.
type summaryTemplate struct {
	Measured   string
	Unmeasured string
	Grouped    bool
}

var severitySummaries = map[domain.Level]summaryTemplate{
	domain.LevelHigh: {
		Measured:   "A high-severity wildfire event (%s+ acres burned). Significant resource impact and infrastructure damage likely.",
		Unmeasured: "A high-severity wildfire event (large-scale fire). Significant resource impact and infrastructure damage likely.",
		Grouped:    true,
	},
	domain.LevelMedium: {
		Measured:   "A medium-severity wildfire (%s acres). Moderate property and ecosystem impact expected.",
		Unmeasured: "A medium-severity wildfire (moderate spread). Moderate property and ecosystem impact expected.",
		Grouped:    true,
	},
	domain.LevelLow: {
		Measured: "A low-severity incident (%s acres or less). Limited spread; localized impact.",
	},
}

var housingImpacts = map[domain.Level]string{
	domain.LevelHigh:   "Likely displacement and elevated housing pressure. Temporary shelters and alternate housing may be needed.",
	domain.LevelMedium: "Some displacement possible. Housing availability may be strained in affected areas.",
	domain.LevelLow:    "Minimal displacement expected. Housing market impact likely contained.",
}

const (
	timelineLong   = "Recovery timeline: 12-24+ months for full restoration."
	timelineMedium = "Recovery timeline: 6-12 months typical for stabilization."
	timelineShort  = "Recovery timeline: 1-3 months for return to normalcy."

	insuranceHeavy   = "Expect significant insurance claim volume and potential processing delays. Documentation and FEMA/state assistance programs may help."
	insuranceDelayed = "Insurance claims may face delays. Contact insurer early; keep records of evacuation and losses."
	insuranceNormal  = "Standard claim processes apply. Document any damage for claims."
)

// pair keys the tables that depend on both axes.
type pair struct {
	Severity   domain.Level
	Disruption domain.Level
}

var timelines = map[pair]string{
	{domain.LevelHigh, domain.LevelHigh}:     timelineLong,
	{domain.LevelHigh, domain.LevelMedium}:   timelineMedium,
	{domain.LevelHigh, domain.LevelLow}:      timelineMedium,
	{domain.LevelMedium, domain.LevelHigh}:   timelineMedium,
	{domain.LevelMedium, domain.LevelMedium}: timelineMedium,
	{domain.LevelMedium, domain.LevelLow}:    timelineMedium,
	{domain.LevelLow, domain.LevelHigh}:      timelineMedium,
	{domain.LevelLow, domain.LevelMedium}:    timelineShort,
	{domain.LevelLow, domain.LevelLow}:       timelineShort,
}

var insuranceGuidance = map[pair]string{
	{domain.LevelHigh, domain.LevelHigh}:     insuranceHeavy,
	{domain.LevelHigh, domain.LevelMedium}:   insuranceHeavy,
	{domain.LevelHigh, domain.LevelLow}:      insuranceHeavy,
	{domain.LevelMedium, domain.LevelHigh}:   insuranceDelayed,
	{domain.LevelMedium, domain.LevelMedium}: insuranceNormal,
	{domain.LevelMedium, domain.LevelLow}:    insuranceNormal,
	{domain.LevelLow, domain.LevelHigh}:      insuranceDelayed,
	{domain.LevelLow, domain.LevelMedium}:    insuranceNormal,
	{domain.LevelLow, domain.LevelLow}:       insuranceNormal,
}
