package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"imagegen-mcp/internal/domain/generation"
	"imagegen-mcp/internal/infrastructure/metrics"
)

// TextToolsMCP registers the auxiliary generate_text tool.
type TextToolsMCP struct {
	service *generation.Service
}

// NewTextToolsMCP creates the text tool handler.
func NewTextToolsMCP(service *generation.Service) *TextToolsMCP {
	return &TextToolsMCP{service: service}
}

// RegisterTools registers the generate_text tool with the MCP server.
func (t *TextToolsMCP) RegisterTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: generation.ToolGenerateText,
		Description: "Generate text from a prompt. Falls back through the configured " +
			"model list when the preferred text model is unavailable.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prompt": map[string]any{
					"type":        "string",
					"description": "Prompt for text generation",
				},
				"system_instruction": map[string]any{
					"type":        []string{"string", "null"},
					"description": "Optional system instruction steering the response",
				},
				"temperature": map[string]any{
					"type":        []string{"number", "null"},
					"description": "Sampling temperature (0.0-2.0)",
				},
				"max_output_tokens": map[string]any{
					"type":        []string{"integer", "null"},
					"description": "Upper bound on generated tokens",
				},
			},
			"required": []string{"prompt"},
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input map[string]any) (*mcp.CallToolResult, generation.ToolResponse, error) {
		start := time.Now()
		log.Info().Str("tool", generation.ToolGenerateText).Msg("MCP tool call received")

		resp := t.service.Dispatch(ctx, generation.ToolGenerateText, input)

		status := "success"
		if !resp.Success {
			status = "error"
		}
		metrics.RecordToolCall(generation.ToolGenerateText, status, time.Since(start).Seconds())

		return nil, resp, nil
	})

	log.Info().Msg("registered text generation MCP tool")
}
