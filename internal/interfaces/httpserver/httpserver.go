package httpserver

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"imagegen-mcp/internal/infrastructure/config"
	"imagegen-mcp/internal/interfaces/httpserver/middlewares"
	"imagegen-mcp/internal/interfaces/httpserver/routes/mcp"
)

// HTTPServer hosts the MCP endpoint plus health and metrics endpoints.
type HTTPServer struct {
	router   *gin.Engine
	config   *config.Config
	mcpRoute *mcp.MCPRoute
}

// NewHTTPServer wires the gin engine with the standard middleware chain.
func NewHTTPServer(cfg *config.Config, mcpRoute *mcp.MCPRoute) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.CORS())
	router.Use(middlewares.MetricsRecorder())

	return &HTTPServer{
		router:   router,
		config:   cfg,
		mcpRoute: mcpRoute,
	}
}

func (s *HTTPServer) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "imagegen-mcp"})
	})

	s.router.GET("/readyz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ready", "service": "imagegen-mcp"})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	s.mcpRoute.RegisterRouter(v1)
}

// Run starts the HTTP server, blocking until it exits.
func (s *HTTPServer) Run() error {
	s.setupRoutes()
	addr := fmt.Sprintf(":%s", s.config.HTTPPort)
	return s.router.Run(addr)
}
