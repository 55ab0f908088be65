package features

import (
	"strings"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// FireDeclarationAcreage is assumed for fire declarations that carry no
// measured area. They are treated as fire-sized, not zero-sized.
const FireDeclarationAcreage = 5000.0

// acreageResolver tries one representation of burned area.
type acreageResolver func(rec domain.Record, p payload) (float64, bool)

// acreageChain is tried in order; first success wins.
var acreageChain = []acreageResolver{
	payloadAcreageResolver,
	sourceAcresResolver,
	fireDeclarationResolver,
}

func payloadAcreageResolver(_ domain.Record, p payload) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return nonNegative(p[payloadAcreage])
}

func sourceAcresResolver(rec domain.Record, _ payload) (float64, bool) {
	raw, ok := rec.Get(SourceAcresField)
	if !ok {
		return 0, false
	}
	return nonNegative(raw)
}

func fireDeclarationResolver(rec domain.Record, _ payload) (float64, bool) {
	raw, ok := rec.Get(IncidentTypeField)
	if !ok {
		return 0, false
	}
	if strings.EqualFold(strings.TrimSpace(raw), "fire") {
		return FireDeclarationAcreage, true
	}
	return 0, false
}

func nonNegative(v any) (float64, bool) {
	f, ok := number(v)
	if !ok || f < 0 {
		return 0, false
	}
	return f, true
}

// Extract derives the feature set for one record. It is pure: the same
// record always yields the same features, and a malformed payload only
// makes the affected features unknown.
func Extract(rec domain.Record) domain.FeatureSet {
	p := parsePayload(rec)

	var fs domain.FeatureSet
	for _, resolve := range acreageChain {
		if v, ok := resolve(rec, p); ok {
			fs.Acreage = domain.Float(v)
			break
		}
	}

	if p != nil {
		if v, ok := number(p[payloadContainment]); ok && v >= 0 && v <= 100 {
			fs.Containment = domain.Float(v)
		}
		fs.HasEvacuation = truthy(p[payloadEvacuationOrders]) ||
			truthy(p[payloadEvacuationWarnings]) ||
			nonBlankString(p[payloadEvacuationNotes])
	}

	return fs
}
