package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// Config keys written by settings key.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbeddingAPIKey = "embedding.api_key"
	keyVectorAPIKey    = "vector_index.api_key"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change wildfire settings.

Settings are read from defaults, then the config file, then the
environment (PINECONE_API_KEY, JINA_API_KEY, WILDFIRE_DATA_DIR).`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Write a single dot-notation key to the config file.

Examples:
  wildfire settings set vector_index.backend sqlite
  wildfire settings set embedding.provider ollama
  wildfire settings set search.top_k 5`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeyCmd = &cobra.Command{
	Use:       "key <pinecone|jina>",
	Short:     "Store an API key in the config file",
	Long:      `Prompt for an API key without echoing it and save it to the config file.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"pinecone", "jina"},
	RunE:      runSettingsKey,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireSettings(); err != nil {
			return err
		}
		cmd.Println(settingsService.Path())
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeyCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Data]")
	cmd.Printf("  Directory: %s\n", settings.Loader.DataDir)
	if settings.Loader.MaxRowsPerFile > 0 {
		cmd.Printf("  Max rows per file: %d\n", settings.Loader.MaxRowsPerFile)
	} else {
		cmd.Println("  Max rows per file: unlimited")
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", displayKey(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[Vector Index]")
	cmd.Printf("  Backend: %s\n", settings.VectorIndex.Backend.Description())
	cmd.Printf("  Name: %s\n", settings.VectorIndex.Name)
	cmd.Printf("  Metric: %s\n", settings.VectorIndex.Metric)
	switch settings.VectorIndex.Backend {
	case domain.VectorBackendPinecone:
		cmd.Printf("  Cloud: %s (%s)\n", settings.VectorIndex.Cloud, settings.VectorIndex.Region)
		cmd.Printf("  API Key: %s\n", displayKey(settings.VectorIndex.APIKey))
	case domain.VectorBackendSQLite:
		if settings.VectorIndex.Path != "" {
			cmd.Printf("  Path: %s\n", settings.VectorIndex.Path)
		}
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.VectorIndex.IsConfigured()))
	cmd.Println()

	cmd.Println("[Indexer]")
	cmd.Printf("  Batch size: %d\n", settings.BatchSize)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Top K: %d\n", settings.TopK)
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsKey(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	var key, label string
	switch args[0] {
	case "pinecone":
		key, label = keyVectorAPIKey, "Pinecone"
	case "jina":
		key, label = keyEmbeddingAPIKey, "Jina"
	default:
		return fmt.Errorf("unknown service %q (want pinecone or jina)", args[0])
	}

	cmd.Printf("Enter %s API key: ", label)
	apiKey := readPassword(cmd.InOrStdin())
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required")
	}

	if err := settingsService.Set(key, apiKey); err != nil {
		return err
	}
	cmd.Printf("%s API key saved (%s)\n", label, maskAPIKey(apiKey))
	return nil
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func displayKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
