package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// csvReader reads comma-separated files with a header row.
type csvReader struct{}

func (csvReader) Read(ctx context.Context, path string, limit int) (*sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // width is checked against the header
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv: file is empty")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	out := &sheet{Header: header}
	for limit == 0 || len(out.Rows) < limit {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			out.BadRows++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		if len(row) > len(header) {
			out.BadRows++
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
