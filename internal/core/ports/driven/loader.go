package driven

import (
	"context"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// RecordLoader reads every tabular file in a directory into one record set.
//
// Unreadable files and malformed rows are skipped; Load fails with
// domain.ErrNoData only when nothing at all could be read.
type RecordLoader interface {
	Load(ctx context.Context, dir string) (*domain.RecordSet, error)
}
