package main

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"imagegen-mcp/internal/infrastructure/config"
	"imagegen-mcp/internal/infrastructure/logger"
	_ "imagegen-mcp/internal/infrastructure/metrics" // Register Prometheus metrics
	"imagegen-mcp/internal/interfaces/httpserver"
	"imagegen-mcp/internal/interfaces/httpserver/routes/mcp"
)

// Application bundles the wired components behind the selected transport.
type Application struct {
	httpServer *httpserver.HTTPServer
	mcpRoute   *mcp.MCPRoute
	config     *config.Config
}

func init() {
	// Initialize logger with default settings; re-initialized from config in main.
	logger.Init("info", "json")
}

// Start serves the MCP server over the configured transport, blocking until
// the transport exits.
func (app *Application) Start(ctx context.Context) error {
	if app.config.Transport == "stdio" {
		log.Info().Msg("serving MCP over stdio")
		return app.mcpRoute.Server().Run(ctx, &mcpsdk.StdioTransport{})
	}

	log.Info().Str("address", ":"+app.config.HTTPPort).Msg("serving MCP over HTTP")
	return app.httpServer.Run()
}

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("transport", cfg.Transport).
		Str("output_dir", cfg.OutputDir).
		Str("image_model", cfg.ImageModel).
		Bool("api_key_configured", cfg.HasAPIKey()).
		Msg("Starting imagegen MCP server")

	application, err := CreateApplication(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	if err := application.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
}
