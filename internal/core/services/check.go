package services

import (
	"context"
	"fmt"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
	"github.com/sipneat/wildfire-narratives/internal/logger"
)

// Ensure CheckService implements the interface.
var _ driving.CheckService = (*CheckService)(nil)

// Smoke check queries.
const (
	CheckBasicQuery   = "wildfire recovery"
	CheckHighQuery    = "massive wildfire thousands of acres burned"
	CheckLowQuery     = "small contained fire minimal damage quick recovery"
	CheckSampleQuery  = "evacuation and housing displacement"
	checkProbeLimit   = 5
	checkMinimumMatch = 3
)

// CheckService runs smoke checks against a built index.
type CheckService struct {
	index  driving.IndexService
	search driving.SearchService
}

// NewCheckService creates a check service.
func NewCheckService(index driving.IndexService, search driving.SearchService) *CheckService {
	return &CheckService{index: index, search: search}
}

// Run executes the checks in order. An empty index fails the first check
// and skips the rest. Collaborator errors fail the affected check only.
func (s *CheckService) Run(ctx context.Context) (*domain.CheckReport, error) {
	logger.Section("Index Checks")
	report := &domain.CheckReport{}

	populated := s.checkPopulated(ctx)
	report.Results = append(report.Results, populated)
	if populated.Status != domain.CheckPass {
		return report, nil
	}

	report.Results = append(report.Results,
		s.checkBasic(ctx),
		s.checkSeverity(ctx, CheckHighQuery, domain.LevelHigh),
		s.checkSeverity(ctx, CheckLowQuery, domain.LevelLow),
		s.checkSample(ctx),
	)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("checks interrupted: %w", err)
	}
	return report, nil
}

func (s *CheckService) checkPopulated(ctx context.Context) domain.CheckResult {
	res := domain.CheckResult{Name: "Index has vectors"}
	stats, err := s.index.Stats(ctx)
	switch {
	case err != nil:
		res.Status = domain.CheckFail
		res.Detail = err.Error()
	case !stats.Populated():
		res.Status = domain.CheckFail
		res.Detail = "No vectors found. Run: wildfire index --rebuild"
	default:
		res.Status = domain.CheckPass
		res.Detail = fmt.Sprintf("%d vectors found in %s", stats.VectorCount, stats.Name)
	}
	return res
}

func (s *CheckService) checkBasic(ctx context.Context) domain.CheckResult {
	res := domain.CheckResult{Name: "Basic search returns results"}
	results, err := s.search.Search(ctx, CheckBasicQuery, domain.SearchOptions{Limit: domain.DefaultSearchLimit})
	switch {
	case err != nil:
		res.Status = domain.CheckFail
		res.Detail = err.Error()
	case len(results) == 0:
		res.Status = domain.CheckFail
		res.Detail = "No results returned"
	default:
		res.Status = domain.CheckPass
		res.Detail = fmt.Sprintf("Got %d results", len(results))
	}
	return res
}

// checkSeverity expects at least three of the top five to carry want.
// A miss is a warning: templated data may legitimately cluster otherwise.
func (s *CheckService) checkSeverity(ctx context.Context, query string, want domain.Level) domain.CheckResult {
	res := domain.CheckResult{Name: fmt.Sprintf("%q returns %s-severity narratives", query, want)}
	results, err := s.search.Search(ctx, query, domain.SearchOptions{Limit: checkProbeLimit})
	if err != nil {
		res.Status = domain.CheckFail
		res.Detail = err.Error()
		return res
	}

	matched := 0
	severities := make([]string, len(results))
	for i, r := range results {
		severities[i] = r.Severity().String()
		if r.Severity() == want {
			matched++
		}
	}

	res.Detail = fmt.Sprintf("%d/%d results are %s severity %v", matched, checkProbeLimit, want, severities)
	if matched >= checkMinimumMatch {
		res.Status = domain.CheckPass
	} else {
		res.Status = domain.CheckWarn
	}
	return res
}

// checkSample always passes; it carries results for the operator to read.
func (s *CheckService) checkSample(ctx context.Context) domain.CheckResult {
	res := domain.CheckResult{Name: fmt.Sprintf("Sample search %q", CheckSampleQuery)}
	results, err := s.search.Search(ctx, CheckSampleQuery, domain.SearchOptions{Limit: domain.DefaultSearchLimit})
	if err != nil {
		res.Status = domain.CheckFail
		res.Detail = err.Error()
		return res
	}
	res.Status = domain.CheckPass
	res.Detail = fmt.Sprintf("%d results", len(results))
	res.Samples = results
	return res
}
