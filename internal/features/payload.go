package features

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// Field names read by the extractor.
const (
	PayloadField      = "data"
	SourceAcresField  = "source_acres"
	IncidentTypeField = "incidentType"

	payloadAcreage            = "acreage"
	payloadContainment        = "containment"
	payloadEvacuationOrders   = "evacuation_orders"
	payloadEvacuationWarnings = "evacuation_warnings"
	payloadEvacuationNotes    = "evacuation_notes"
)

// payload is the decoded nested object. A nil payload means the record
// had none, or it did not decode to a JSON object.
type payload map[string]any

// parsePayload decodes the record's nested JSON object.
func parsePayload(rec domain.Record) payload {
	raw, ok := rec.Get(PayloadField)
	if !ok {
		return nil
	}
	var p map[string]any
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	return p
}

// number converts a JSON value or cell text to a finite float.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// truthy reports whether a payload flag is set. Any non-empty string
// counts, including "false" and "no".
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return false
	}
}

// nonBlankString reports whether v is a string with non-space text.
func nonBlankString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}
