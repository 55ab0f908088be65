// Package domain defines the core business entities for wildfire-narratives.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: One ingested row from a tabular source file
//   - FeatureSet: Normalised signals derived from a record
//   - Classification: Severity and disruption levels
//   - Event: A record carried through the narrative pipeline
//   - VectorEntry: The unit persisted in a vector index
//
// # Unknown Values
//
// Missing measurements are nil pointers, never zero. A fire with an
// unknown burned area and a fire that burned 0 acres are different
// events and must stay different all the way to the narrative.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
