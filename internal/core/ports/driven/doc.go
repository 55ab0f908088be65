// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - RecordLoader: Reads tabular source files into records
//   - EmbeddingService: Encodes passages and queries into vectors
//   - VectorIndex: Stores vectors and answers nearest-neighbour queries
//   - ConfigStore: Application configuration
//
// EmbeddingService and VectorIndex are deliberately narrow so that a
// deterministic embedder and an in-memory index can stand in for the
// network services in tests.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
