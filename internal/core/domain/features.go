package domain

// FeatureSet holds the normalised signals derived from one record.
// A nil pointer means the value is unknown.
type FeatureSet struct {
	// Acreage is the burned area in acres.
	Acreage *float64

	// Containment is the containment percentage, 0-100.
	Containment *float64

	// HasEvacuation is true when any evacuation order, warning or note exists.
	HasEvacuation bool
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// AcreageOrZero returns the acreage, or 0 when unknown.
func (f FeatureSet) AcreageOrZero() float64 {
	if f.Acreage == nil {
		return 0
	}
	return *f.Acreage
}
