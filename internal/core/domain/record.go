package domain

import "strings"

// SourceFileField is the provenance column added to every loaded record.
const SourceFileField = "_source_file"

// Record is one ingested row. Fields is an open mapping of the source's
// columns; records from different files need not share a schema.
type Record struct {
	// Source is the originating file name.
	Source string

	// Fields maps column name to raw cell text.
	Fields map[string]string
}

// NewRecord creates a record tagged with its source file.
func NewRecord(source string, fields map[string]string) Record {
	if fields == nil {
		fields = make(map[string]string)
	}
	return Record{Source: source, Fields: fields}
}

// Get returns a field value. A field that is absent or blank is unset.
func (r Record) Get(name string) (string, bool) {
	if name == SourceFileField {
		return r.Source, r.Source != ""
	}
	v, ok := r.Fields[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// RecordSet is the unified output of a load.
type RecordSet struct {
	// Columns is the union of all per-file columns in first-seen order.
	Columns []string

	// Records holds every loaded row, in file then row order.
	Records []Record

	// Files lists the files that contributed at least one row.
	Files []string

	// SkippedFiles counts files that could not be parsed.
	SkippedFiles int

	// SkippedRows counts malformed rows dropped inside otherwise readable files.
	SkippedRows int
}

// Len returns the number of records.
func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}
