// Package cli provides the wildfire command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
	"github.com/sipneat/wildfire-narratives/internal/logger"
	"github.com/sipneat/wildfire-narratives/internal/observability"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Command annotations that select what the pre-run prepares.
const (
	annotationServices = "wildfire/services"
	annotationMetrics  = "wildfire/metrics"
)

// Services are the driving ports a command runs against.
type Services struct {
	Pipeline driving.PipelineService
	Index    driving.IndexService
	Search   driving.SearchService
	Check    driving.CheckService

	// Gatherer backs /metrics when --metrics-addr is set. Nil uses the
	// default registry.
	Gatherer prometheus.Gatherer

	// Model names the embedding model for display.
	Model string

	// Close releases adapters. Optional.
	Close func() error
}

// SettingsFactory opens the settings service for a config directory.
// An empty directory means the default location.
type SettingsFactory func(configDir string) (driving.SettingsService, error)

// ServiceFactory builds services from resolved settings. Adapters that
// need a missing credential fail here.
type ServiceFactory func(ctx context.Context, settings *domain.AppSettings) (*Services, error)

var (
	newSettings SettingsFactory
	newServices ServiceFactory

	settingsService driving.SettingsService
	appSettings     *domain.AppSettings
	services        *Services
	metricsServer   *observability.Server
)

// SetSettingsFactory registers how settings are opened.
func SetSettingsFactory(f SettingsFactory) {
	newSettings = f
}

// SetServiceFactory registers how services are built.
func SetServiceFactory(f ServiceFactory) {
	newServices = f
}

var rootCmd = &cobra.Command{
	Use:   "wildfire",
	Short: "Search past wildfire events by their recovery story",
	Long: `wildfire turns wildfire incident feeds and disaster declarations into
natural-language recovery narratives and indexes them for semantic search.

Run without a subcommand to load ./data, classify every event, build the
index and start an interactive search prompt.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runRun,
	Annotations: map[string]string{
		annotationServices: "true",
		annotationMetrics:  "true",
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.String("config", "", "Config directory (default ~/.wildfire)")
	pf.String("data-dir", "", "Directory of source CSV/XLSX files (overrides data.dir)")
	pf.String("backend", "", "Vector index backend: pinecone, sqlite or memory")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	addBuildFlags(rootCmd)
}

// Execute runs the root command and releases resources afterwards.
func Execute(ctx context.Context) error {
	defer cleanup()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	logger.SetVerbose(verbose)

	if err := ensureSettingsService(cmd); err != nil {
		return err
	}
	if cmd.Annotations[annotationServices] != "true" {
		return nil
	}
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	appSettings = settings

	if newServices == nil {
		return errors.New("services not configured")
	}
	closeServices()
	services, err = newServices(cmd.Context(), settings)
	if err != nil {
		return err
	}

	if cmd.Annotations[annotationMetrics] == "true" {
		return startMetrics(cmd)
	}
	return nil
}

// ensureSettingsService opens settings once, or again when --config is given.
func ensureSettingsService(cmd *cobra.Command) error {
	configDir, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if settingsService != nil && configDir == "" {
		return nil
	}
	if newSettings == nil {
		return nil
	}
	svc, err := newSettings(configDir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	settingsService = svc
	return nil
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

// resolveSettings applies command-line overrides on top of stored settings.
func resolveSettings(cmd *cobra.Command) (*domain.AppSettings, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		settings.Loader.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("backend") {
		backend, _ := flags.GetString("backend")
		settings.VectorIndex.Backend = domain.VectorBackend(backend)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func startMetrics(cmd *cobra.Command) error {
	addr, err := cmd.Flags().GetString("metrics-addr")
	if err != nil || addr == "" {
		return err
	}

	metricsServer = observability.NewServer(addr, services.Gatherer)
	srv := metricsServer
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped: %v", err)
		}
	}()
	logger.Info("Serving metrics on %s/metrics", addr)
	return nil
}

// cleanup stops the metrics server and closes adapters.
func cleanup() {
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Debug("metrics shutdown: %v", err)
		}
		cancel()
		metricsServer = nil
	}
	closeServices()
}

func closeServices() {
	if services == nil {
		return
	}
	if services.Close != nil {
		if err := services.Close(); err != nil {
			logger.Warn("closing services: %v", err)
		}
	}
	services = nil
}

// needsServices marks a command as running against the pipeline services.
func needsServices(withMetrics bool) map[string]string {
	a := map[string]string{annotationServices: "true"}
	if withMetrics {
		a[annotationMetrics] = "true"
	}
	return a
}
