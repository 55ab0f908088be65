// Package sqlite provides a SQLite-backed implementation of driven.VectorIndex.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Vectors are stored as little-endian float32 blobs and
// metadata as a JSON object. Queries are answered by a brute-force cosine
// scan, which is adequate for the few thousand narratives a run produces.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.wildfire/index.db
//
// # Dimension
//
// The dimension is recorded on first open. Reopening the file with a
// different dimension fails with domain.ErrDimensionMismatch; rebuild
// with a fresh file after switching embedding models.
package sqlite
