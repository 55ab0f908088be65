// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline stages (features, classify, narrative) are pure functions;
// only the indexer and search services touch the network, through the
// EmbeddingService and VectorIndex ports.
package services
