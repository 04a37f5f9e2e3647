package mcp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"imagegen-mcp/internal/interfaces/httpserver/responses"
	"imagegen-mcp/utils/apperrors"
)

var allowedMCPMethods = map[string]bool{
	// Initialization / handshake
	"initialize":                true,
	"notifications/initialized": true,
	"ping":                      true,

	// Tools
	"tools/list": true,
	"tools/call": true,

	// Prompts
	"prompts/list": true,
	"prompts/get":  true,

	// Resources
	"resources/list":           true,
	"resources/templates/list": true,
	"resources/read":           true,
}

// MCPRoute assembles the MCP server from the tool, resource, and prompt
// handlers and serves it over the streamable HTTP transport.
type MCPRoute struct {
	imageMCP     *ImageToolsMCP
	textMCP      *TextToolsMCP
	resourcesMCP *ResourcesMCP
	promptsMCP   *PromptsMCP
	mcpServer    *mcp.Server
	httpHandler  http.Handler
}

// NewMCPRoute builds the MCP server and registers every tool, resource, and
// prompt with it.
func NewMCPRoute(
	imageMCP *ImageToolsMCP,
	textMCP *TextToolsMCP,
	resourcesMCP *ResourcesMCP,
	promptsMCP *PromptsMCP,
) *MCPRoute {
	impl := &mcp.Implementation{
		Name:    "imagegen-mcp",
		Version: "1.0.0",
	}
	server := mcp.NewServer(impl, nil)

	imageMCP.RegisterTools(server)
	textMCP.RegisterTools(server)
	resourcesMCP.RegisterResources(server)
	promptsMCP.RegisterPrompts(server)

	return &MCPRoute{
		imageMCP:     imageMCP,
		textMCP:      textMCP,
		resourcesMCP: resourcesMCP,
		promptsMCP:   promptsMCP,
		mcpServer:    server,
		httpHandler: mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return server
		}, &mcp.StreamableHTTPOptions{Stateless: true}),
	}
}

// Server exposes the underlying MCP server for the stdio transport.
func (route *MCPRoute) Server() *mcp.Server {
	return route.mcpServer
}

// RegisterRouter mounts the MCP endpoint on the given router group.
func (route *MCPRoute) RegisterRouter(router *gin.RouterGroup) {
	router.POST("/mcp",
		MCPMethodGuard(allowedMCPMethods),
		route.serveMCP,
	)
}

func (route *MCPRoute) serveMCP(reqCtx *gin.Context) {
	// Force acceptable content types for the streamable handler even if the
	// client omits Accept.
	reqCtx.Request.Header.Set("Accept", "application/json, text/event-stream")
	route.httpHandler.ServeHTTP(reqCtx.Writer, reqCtx.Request)
}

// MCPMethodGuard rejects malformed envelopes and unsupported MCP methods
// before they reach the streamable handler.
func MCPMethodGuard(allowedMethods map[string]bool) gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		bodyBytes, err := io.ReadAll(reqCtx.Request.Body)
		if err != nil {
			responses.HandleNewError(reqCtx, apperrors.KindProviderFailure, "failed to read MCP request body")
			return
		}
		_ = reqCtx.Request.Body.Close()

		if len(bodyBytes) == 0 {
			responses.HandleNewError(reqCtx, apperrors.KindInvalidInput, "empty MCP request body")
			return
		}

		reqCtx.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var payload struct {
			Method string `json:"method"`
		}
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			responses.HandleNewError(reqCtx, apperrors.KindInvalidInput, "invalid MCP request payload")
			return
		}
		if payload.Method == "" {
			responses.HandleNewError(reqCtx, apperrors.KindInvalidInput, "missing method field in MCP request")
			return
		}
		if !allowedMethods[payload.Method] {
			responses.HandleNewError(reqCtx, apperrors.KindInvalidInput, "unsupported MCP method: "+payload.Method)
			return
		}

		reqCtx.Next()
	}
}
