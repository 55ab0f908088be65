package cli

import (
	"github.com/spf13/cobra"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/mcp"
	"github.com/sipneat/wildfire-narratives/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose narrative search to AI assistants over the Model Context Protocol.

By default the server speaks JSON-RPC over stdio. Use --http to listen on
an address instead, for example to test with MCP Inspector.

Tools:
  search_narratives  semantic search over indexed narratives
  index_stats        vector count and index configuration

Examples:
  wildfire mcp serve
  wildfire mcp serve --http :8080`,
	Args:        cobra.NoArgs,
	RunE:        runMCPServe,
	Annotations: needsServices(true),
}

func init() {
	mcpServeCmd.Flags().String("http", "", "Listen for streamable HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search:       services.Search,
		Index:        services.Index,
		DefaultLimit: appSettings.TopK,
	})
	if err != nil {
		return err
	}

	if addr != "" {
		logger.Info("MCP server listening on http://%s", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
