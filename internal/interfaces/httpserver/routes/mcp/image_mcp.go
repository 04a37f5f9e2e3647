package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"imagegen-mcp/internal/domain/generation"
	"imagegen-mcp/internal/infrastructure/metrics"
)

// ImageToolsMCP registers the image generation tools: generate_image,
// edit_image, and blend_images.
type ImageToolsMCP struct {
	service *generation.Service
}

// NewImageToolsMCP creates the image tool handlers.
func NewImageToolsMCP(service *generation.Service) *ImageToolsMCP {
	return &ImageToolsMCP{service: service}
}

// RegisterTools registers the image tools with the MCP server.
func (i *ImageToolsMCP) RegisterTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: generation.ToolGenerateImage,
		Description: "Generate an image from a text description using Google's Gemini model. " +
			"Describe the scene, not just keywords: subject, environment, mood. " +
			"Photographic language (shot type, lens, lighting, composition) improves results. " +
			"See docs://prompting/guide and docs://prompting/cheatsheet.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prompt": map[string]any{
					"type":        "string",
					"description": "Detailed description of the desired image",
				},
				"style": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Art style hint (realistic, cartoon, abstract, minimalist, vintage)",
				},
				"aspect_ratio": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Target aspect ratio (1:1, 16:9, 4:3, 9:16)",
					"default":     "1:1",
				},
				"quality": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Quality level (standard, high)",
					"default":     "standard",
				},
			},
			"required": []string{"prompt"},
		},
	}, i.handler(generation.ToolGenerateImage))

	mcp.AddTool(server, &mcp.Tool{
		Name: generation.ToolEditImage,
		Description: "Edit an existing image using natural language instructions. " +
			"Targeted requests work best: state what to change and what to keep.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"image_path": map[string]any{
					"type":        "string",
					"description": "Path to the source image on local disk",
				},
				"instructions": map[string]any{
					"type":        "string",
					"description": "Natural language editing instructions",
				},
				"preserve_style": map[string]any{
					"type":        []string{"boolean", "null"},
					"description": "Maintain the original image style and lighting",
					"default":     true,
				},
			},
			"required": []string{"image_path", "instructions"},
		},
	}, i.handler(generation.ToolEditImage))

	mcp.AddTool(server, &mcp.Tool{
		Name: generation.ToolBlendImages,
		Description: "Blend multiple images into a single composition. " +
			"2-3 source images are recommended; describe spatial layout and scale between elements.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"image_paths": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Paths of the images to blend (2-3 recommended)",
				},
				"instructions": map[string]any{
					"type":        "string",
					"description": "Composition goal and relationships between the images",
				},
				"blend_mode": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Blending mode (natural, artistic, seamless)",
					"default":     "natural",
				},
			},
			"required": []string{"image_paths", "instructions"},
		},
	}, i.handler(generation.ToolBlendImages))

	log.Info().Msg("registered image generation MCP tools")
}

// handler adapts the dispatcher to the MCP tool handler shape. Expected
// failures are reported inside the envelope, never as transport faults.
func (i *ImageToolsMCP) handler(tool string) func(context.Context, *mcp.CallToolRequest, map[string]any) (*mcp.CallToolResult, generation.ToolResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input map[string]any) (*mcp.CallToolResult, generation.ToolResponse, error) {
		start := time.Now()
		log.Info().Str("tool", tool).Msg("MCP tool call received")

		resp := i.service.Dispatch(ctx, tool, input)

		status := "success"
		if !resp.Success {
			status = "error"
		}
		metrics.RecordToolCall(tool, status, time.Since(start).Seconds())

		return nil, resp, nil
	}
}
