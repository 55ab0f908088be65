package tabular

import (
	"context"
	"errors"
	"fmt"

	"github.com/tealeg/xlsx/v2"
)

// xlsxReader reads the first worksheet of a workbook. The first row is
// the header.
type xlsxReader struct{}

func (xlsxReader) Read(ctx context.Context, path string, limit int) (*sheet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open file: %w", err)
	}
	if len(f.Sheets) == 0 {
		return nil, errors.New("xlsx: workbook has no sheets")
	}

	ws := f.Sheets[0]
	if len(ws.Rows) == 0 {
		return nil, errors.New("xlsx: sheet is empty")
	}

	out := &sheet{Header: rowToStrings(ws.Rows[0])}
	for _, row := range ws.Rows[1:] {
		if limit > 0 && len(out.Rows) >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		if row == nil {
			continue
		}
		cells := rowToStrings(row)
		if len(cells) > len(out.Header) && !blankTail(cells[len(out.Header):]) {
			out.BadRows++
			continue
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell != nil {
			cells[j] = cell.String()
		}
	}
	return cells
}

func blankTail(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
