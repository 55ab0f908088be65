package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/config/file"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/embedding/hashing"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/tabular"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/vectorindex/memory"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
	coreservices "github.com/sipneat/wildfire-narratives/internal/core/services"
	"github.com/sipneat/wildfire-narratives/internal/observability"
)

const testDimensions = 64

const fixtureCSV = `name,data
Canyon Fire,"{""acreage"":15000,""containment"":40,""evacuation_orders"":true}"
Brush Fire,"{""acreage"":120,""containment"":100}"
Ridge Fire,"{""acreage"":2500,""containment"":70,""evacuation_warnings"":""Zone 4""}"
`

// testEnv is a wired CLI backed by a temp config dir and an in-memory index.
type testEnv struct {
	configDir string
	dataDir   string
	index     *memory.Index
	builds    int
}

// setupTestServices wires real services over hashing embeddings and a
// shared in-memory index, and returns a cleanup that restores globals.
func setupTestServices(t *testing.T) (*testEnv, func()) {
	t.Helper()
	for _, env := range []string{coreservices.EnvPineconeAPIKey, coreservices.EnvJinaAPIKey, coreservices.EnvDataDir} {
		t.Setenv(env, "")
	}

	env := &testEnv{
		configDir: t.TempDir(),
		dataDir:   t.TempDir(),
		index:     memory.New(domain.DefaultIndexName, testDimensions),
	}
	require.NoError(t, os.WriteFile(filepath.Join(env.dataDir, "fires.csv"), []byte(fixtureCSV), 0o600))

	store, err := file.NewConfigStore(env.configDir)
	require.NoError(t, err)
	settings := coreservices.NewSettingsService(store)
	require.NoError(t, settings.Set(coreservices.KeyDataDir, env.dataDir))
	require.NoError(t, settings.Set(coreservices.KeyEmbedProvider, "hashing"))
	require.NoError(t, settings.Set(coreservices.KeyEmbedDims, testDimensions))
	require.NoError(t, settings.Set(coreservices.KeyVectorBackend, "memory"))

	SetSettingsFactory(func(string) (driving.SettingsService, error) {
		return settings, nil
	})
	SetServiceFactory(func(_ context.Context, s *domain.AppSettings) (*Services, error) {
		env.builds++
		return env.build(s), nil
	})

	return env, func() {
		cleanup()
		resetCLI()
	}
}

func (e *testEnv) build(s *domain.AppSettings) *Services {
	metrics := observability.NewMetricsForTesting()
	embedder := hashing.NewEmbeddingService(s.Embedding.Dimensions)
	index := coreservices.NewIndexerService(embedder, e.index, metrics, coreservices.WithBatchSize(2))
	search := coreservices.NewSearchService(embedder, e.index, s.TopK, metrics)
	return &Services{
		Pipeline: coreservices.NewPipelineService(tabular.New(), s.Loader.DataDir, metrics),
		Index:    index,
		Search:   search,
		Check:    coreservices.NewCheckService(index, search),
		Model:    embedder.ModelName(),
	}
}

// resetCLI clears package state and flag values between tests.
func resetCLI() {
	newSettings = nil
	newServices = nil
	settingsService = nil
	appSettings = nil
	services = nil
	metricsServer = nil

	rootCmd.SetArgs(nil)
	rootCmd.SetIn(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	resetFlags(rootCmd)
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand runs the root command with args and captures output.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	var in io.Reader = strings.NewReader(stdin)
	rootCmd.SetIn(in)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	if args == nil {
		// nil makes cobra fall back to os.Args.
		args = []string{}
	}
	rootCmd.SetArgs(args)
	defer resetFlags(rootCmd)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
