package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

type mockCheckService struct {
	report *domain.CheckReport
	err    error
}

func (m *mockCheckService) Run(context.Context) (*domain.CheckReport, error) {
	return m.report, m.err
}

func withCheck(env *testEnv, check *mockCheckService) {
	SetServiceFactory(func(_ context.Context, s *domain.AppSettings) (*Services, error) {
		svc := env.build(s)
		svc.Check = check
		return svc, nil
	})
}

func TestCheckCmd_EmptyIndex(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := executeCommand(t, "", "check")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errChecksFailed))

	assert.Contains(t, out, "TEST 1: Index has vectors")
	assert.Contains(t, out, "  FAIL: No vectors found. Run: wildfire index --rebuild")
	assert.Contains(t, out, "Results: 0 passed, 1 failed")
	assert.Contains(t, out, "Some tests failed. Check output above for details.")
}

func TestCheckCmd_AfterIndex(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := executeCommand(t, "", "index")
	require.NoError(t, err)

	out, _ := executeCommand(t, "", "check")
	assert.Contains(t, out, "TEST 1: Index has vectors")
	assert.Contains(t, out, "  PASS: 3 vectors found in wildfire-narratives")
	assert.Contains(t, out, "TEST 2: Basic search returns results")
	assert.Contains(t, out, "TEST 5: Sample search")
	assert.Contains(t, out, "Results: ")
}

func TestCheckCmd_AllPassed(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	withCheck(env, &mockCheckService{report: &domain.CheckReport{Results: []domain.CheckResult{
		{Name: "Index has vectors", Status: domain.CheckPass, Detail: "3 vectors found in test"},
		{Name: "Basic search returns results", Status: domain.CheckPass, Detail: "Got 3 results"},
	}}})

	out, err := executeCommand(t, "", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Results: 2 passed, 0 failed")
	assert.Contains(t, out, "All tests passed. Index is ready to search.")
}

func TestCheckCmd_ServiceError(t *testing.T) {
	env, cleanup := setupTestServices(t)
	defer cleanup()
	withCheck(env, &mockCheckService{err: context.Canceled})

	_, err := executeCommand(t, "", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check failed")
}

func TestPrintCheckReport_Samples(t *testing.T) {
	long := "[Big Fire] " + strings.Repeat("x", 400)
	report := &domain.CheckReport{Results: []domain.CheckResult{{
		Name:   `Sample search "evacuation"`,
		Status: domain.CheckWarn,
		Detail: "only 1 result",
		Samples: []domain.SearchResult{{
			Score:    0.5,
			Metadata: domain.Metadata{domain.MetaText: long, domain.MetaSeverity: "high", domain.MetaDisruption: "low"},
		}},
	}}}

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	printCheckReport(cmd, report)

	out := buf.String()
	assert.Contains(t, out, "[1] Score: 0.500 | Severity: high | Disruption: low")
	assert.Contains(t, out, "  "+long[:samplePreviewRunes]+"\n")
	assert.NotContains(t, out, long[:samplePreviewRunes+1])
	assert.Contains(t, out, "  WARN: only 1 result")
	assert.Contains(t, out, "Results: 0 passed, 1 failed")
}
