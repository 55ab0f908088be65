// Command wildfire builds and searches an index of wildfire recovery
// narratives.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/config/file"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/cli"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
	"github.com/sipneat/wildfire-narratives/internal/core/services"
	"github.com/sipneat/wildfire-narratives/internal/logger"
)

func main() {
	// A local .env may carry PINECONE_API_KEY and JINA_API_KEY.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("reading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetSettingsFactory(openSettings)
	cli.SetServiceFactory(buildServices)

	if err := cli.Execute(ctx); err != nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func openSettings(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store), nil
}
