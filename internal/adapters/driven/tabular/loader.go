package tabular

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
	"github.com/sipneat/wildfire-narratives/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.RecordLoader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader)

// WithMaxRowsPerFile caps the rows read from each file. 0 means unlimited.
func WithMaxRowsPerFile(n int) Option {
	return func(l *Loader) {
		if n >= 0 {
			l.maxRows = n
		}
	}
}

// Loader reads every supported file in a directory.
type Loader struct {
	readers map[string]fileReader
	maxRows int
}

// New creates a loader for .csv and .xlsx files.
func New(opts ...Option) *Loader {
	l := &Loader{
		readers: map[string]fileReader{
			".csv":  csvReader{},
			".xlsx": xlsxReader{},
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Extensions returns the supported file extensions, sorted.
func (l *Loader) Extensions() []string {
	exts := make([]string, 0, len(l.readers))
	for ext := range l.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load reads dir into one record set.
func (l *Loader) Load(ctx context.Context, dir string) (*domain.RecordSet, error) {
	files, err := l.discover(dir)
	if err != nil {
		return nil, err
	}

	set := &domain.RecordSet{}
	columns := make(map[string]bool)

	for _, path := range files {
		name := filepath.Base(path)
		reader := l.readers[strings.ToLower(filepath.Ext(path))]

		sh, err := reader.Read(ctx, path, l.maxRows)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("load %s: %w", dir, ctx.Err())
			}
			logger.Warn("could not load %s: %v", name, err)
			set.SkippedFiles++
			continue
		}

		plan := planColumns(sh.Header)
		for _, col := range plan.names {
			if !columns[col] {
				columns[col] = true
				set.Columns = append(set.Columns, col)
			}
		}
		for _, row := range sh.Rows {
			set.Records = append(set.Records, domain.NewRecord(name, plan.fields(row)))
		}
		if sh.BadRows > 0 {
			logger.Warn("skipped %d malformed rows in %s", sh.BadRows, name)
			set.SkippedRows += sh.BadRows
		}
		if len(sh.Rows) > 0 {
			set.Files = append(set.Files, name)
		}
		logger.Debug("loaded %s: %d rows, %d columns", name, len(sh.Rows), len(plan.names))
	}

	if len(set.Records) == 0 {
		return nil, fmt.Errorf("load %s: %w", dir, domain.ErrNoData)
	}
	return set, nil
}

// discover lists supported files in lexical order.
func (l *Loader) discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: directory not found: %w", dir, domain.ErrNoData)
		}
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if _, ok := l.readers[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
