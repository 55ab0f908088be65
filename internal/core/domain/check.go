package domain

// CheckStatus is the outcome of a single index smoke check.
type CheckStatus string

// Check outcomes. A warning is a soft failure: the index answered, but
// not the way a well-built index should.
const (
	CheckPass CheckStatus = "PASS"
	CheckWarn CheckStatus = "WARN"
	CheckFail CheckStatus = "FAIL"
)

// CheckResult is the outcome of one smoke check.
type CheckResult struct {
	// Name describes what was checked.
	Name string

	// Status is the outcome.
	Status CheckStatus

	// Detail explains the outcome.
	Detail string

	// Samples holds results worth showing to the operator.
	Samples []SearchResult
}

// CheckReport collects smoke check outcomes in run order.
type CheckReport struct {
	Results []CheckResult
}

// Passed counts passing checks.
func (r *CheckReport) Passed() int {
	n := 0
	for _, c := range r.Results {
		if c.Status == CheckPass {
			n++
		}
	}
	return n
}

// Failed counts checks that warned or failed.
func (r *CheckReport) Failed() int {
	return len(r.Results) - r.Passed()
}

// OK returns true if every check passed.
func (r *CheckReport) OK() bool {
	return r.Failed() == 0
}
