package infrastructure

import (
	"context"

	"github.com/google/wire"

	"imagegen-mcp/internal/domain/generation"
	"imagegen-mcp/internal/infrastructure/config"
	"imagegen-mcp/internal/infrastructure/gemini"
	"imagegen-mcp/internal/infrastructure/storage"
)

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	ProvideConfig,
	ProvidePresets,
	ProvideGateway,
	ProvideStore,
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

// ProvidePresets loads the prompt-enhancement preset tables
func ProvidePresets(cfg *config.Config) (*gemini.Presets, error) {
	return gemini.LoadPresets(cfg.PresetsFile)
}

// ProvideGateway provides the generation provider gateway
func ProvideGateway(ctx context.Context, cfg *config.Config, presets *gemini.Presets) (generation.Gateway, error) {
	return gemini.NewClient(ctx, cfg, presets)
}

// ProvideStore provides the output store
func ProvideStore(cfg *config.Config) (generation.Store, error) {
	return storage.NewStore(cfg)
}
