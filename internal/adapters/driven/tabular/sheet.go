package tabular

import (
	"context"
	"strconv"
)

// ExcludedColumns hold geometry payloads that are too large to load.
var ExcludedColumns = map[string]bool{
	"geom":       true,
	"geom_label": true,
}

// sheet is the parsed content of one file.
type sheet struct {
	Header  []string
	Rows    [][]string
	BadRows int
}

// fileReader parses one tabular format. limit caps accepted rows; 0 means
// unlimited. An error means the whole file is unusable.
type fileReader interface {
	Read(ctx context.Context, path string, limit int) (*sheet, error)
}

// columnPlan maps kept header positions to unique column names.
type columnPlan struct {
	index []int
	names []string
}

// planColumns drops excluded columns and disambiguates duplicate names
// by suffixing ".1", ".2", ... Generated names are reserved too, so a
// header such as a,a,a.1 still yields distinct columns.
func planColumns(header []string) columnPlan {
	var plan columnPlan
	used := make(map[string]bool, len(header))
	next := make(map[string]int, len(header))
	for i, name := range header {
		if ExcludedColumns[name] {
			continue
		}
		unique := name
		for used[unique] {
			next[name]++
			unique = name + "." + strconv.Itoa(next[name])
		}
		used[unique] = true
		plan.index = append(plan.index, i)
		plan.names = append(plan.names, unique)
	}
	return plan
}

// fields projects a raw row onto the plan. Missing trailing cells stay unset.
func (p columnPlan) fields(row []string) map[string]string {
	out := make(map[string]string, len(p.index))
	for j, i := range p.index {
		if i < len(row) && row[i] != "" {
			out[p.names[j]] = row[i]
		}
	}
	return out
}
