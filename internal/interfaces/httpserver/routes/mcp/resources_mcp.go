package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"imagegen-mcp/internal/domain/generation"
	"imagegen-mcp/internal/infrastructure/config"
)

const (
	galleryResourceURI = "image://gallery/recent"
	statusResourceURI  = "config://api/status"
	guideResourceURI   = "docs://prompting/guide"
	cheatsheetURI      = "docs://prompting/cheatsheet"

	galleryLimit        = 10
	promptExcerptLength = 80
)

// ResourcesMCP answers read-only resource queries from the output store and
// the effective configuration. It never mutates either.
type ResourcesMCP struct {
	store generation.Store
	cfg   *config.Config
}

// NewResourcesMCP creates the resource handlers.
func NewResourcesMCP(store generation.Store, cfg *config.Config) *ResourcesMCP {
	return &ResourcesMCP{store: store, cfg: cfg}
}

// RegisterResources registers the gallery, status, and documentation
// resources with the MCP server.
func (r *ResourcesMCP) RegisterResources(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         galleryResourceURI,
		Name:        "Recent generated images",
		Description: "List of recently generated assets with path, kind, timestamp, prompt excerpt, and model",
		MIMEType:    "application/json",
	}, r.readGallery)

	server.AddResource(&mcp.Resource{
		URI:         statusResourceURI,
		Name:        "API configuration status",
		Description: "Whether an API key is configured, the output directory, and the active models",
		MIMEType:    "application/json",
	}, r.readStatus)

	server.AddResource(&mcp.Resource{
		URI:         guideResourceURI,
		Name:        "Prompting guide",
		Description: "Reference guide for writing effective image generation prompts",
		MIMEType:    "text/markdown",
	}, staticResource(guideResourceURI, "text/markdown", promptingGuide))

	server.AddResource(&mcp.Resource{
		URI:         cheatsheetURI,
		Name:        "Prompting cheatsheet",
		Description: "JSON cheatsheet of photographic prompt fragments and templates",
		MIMEType:    "application/json",
	}, staticResource(cheatsheetURI, "application/json", promptingCheatsheet))

	log.Info().Msg("registered MCP resources")
}

type galleryEntry struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Size     int64  `json:"size"`
	Created  string `json:"created"`
	Prompt   string `json:"prompt"`
	Model    string `json:"model"`
}

func (r *ResourcesMCP) readGallery(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	assets := r.store.Recent(galleryLimit)
	entries := make([]galleryEntry, 0, len(assets))
	for _, a := range assets {
		entries = append(entries, galleryEntry{
			Filename: filepath.Base(a.Path),
			Path:     a.Path,
			Kind:     string(a.Kind),
			Size:     a.SizeBytes,
			Created:  a.CreatedAt.Format(time.RFC3339),
			Prompt:   excerpt(a.SourcePrompt, promptExcerptLength),
			Model:    a.Model,
		})
	}
	return jsonResource(galleryResourceURI, entries)
}

func (r *ResourcesMCP) readStatus(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	// Only the presence of a key is ever reported, never its value.
	status := map[string]any{
		"configured":           r.cfg.HasAPIKey(),
		"image_model":          r.cfg.ImageModel,
		"text_model":           r.cfg.TextModel,
		"text_fallback_models": len(r.cfg.TextModelFallbacks),
		"output_directory":     r.cfg.OutputDir,
		"documentation": map[string]string{
			"prompting_guide": guideResourceURI,
			"cheatsheet":      cheatsheetURI,
			"gallery":         galleryResourceURI,
		},
	}
	if !r.cfg.HasAPIKey() {
		status["setup_instructions"] = "Set GEMINI_API_KEY or create ~/.imagegen_mcp.json with an api_key entry"
	}
	return jsonResource(statusResourceURI, status)
}

func jsonResource(uri string, value any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func staticResource(uri, mimeType, text string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: mimeType,
				Text:     text,
			}},
		}, nil
	}
}

func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
