// Package tabular implements driven.RecordLoader over a directory of
// CSV and XLSX files.
//
// Files are read in lexical name order. Each file's header decides which
// columns are kept; oversized geometry columns are never read. A file
// that cannot be parsed is skipped with a warning and a malformed row is
// skipped and counted, so one bad export never aborts a load.
package tabular
