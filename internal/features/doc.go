// Package features derives a normalised FeatureSet from an open-schema record.
//
// Source files disagree on where burned area, containment and evacuation
// status live. Incident feeds carry a JSON payload in the "data" column,
// some feeds report "source_acres" directly, and disaster declarations
// only say what kind of incident it was. Each signal is resolved by an
// ordered chain of resolvers; the first one that succeeds wins and a
// resolver never fails loudly.
package features
