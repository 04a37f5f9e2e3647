package routes

import (
	"github.com/google/wire"

	"imagegen-mcp/internal/interfaces/httpserver/routes/mcp"
)

// RoutesProvider provides all route dependencies
var RoutesProvider = wire.NewSet(
	mcp.NewImageToolsMCP,
	mcp.NewTextToolsMCP,
	mcp.NewResourcesMCP,
	mcp.NewPromptsMCP,
	mcp.NewMCPRoute,
)
