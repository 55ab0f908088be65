// Package file provides the TOML-backed configuration store.
//
// Keys are addressed in dot notation ("embedding.provider") and written
// back as nested TOML tables, so a saved file reads:
//
//	[embedding]
//	provider = "jina"
package file
