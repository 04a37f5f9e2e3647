package mcp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func guardRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/mcp", MCPMethodGuard(allowedMCPMethods), func(reqCtx *gin.Context) {
		reqCtx.String(http.StatusOK, "passed")
	})
	return router
}

func TestMCPMethodGuard(t *testing.T) {
	router := guardRouter()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "allowed method passes",
			body:       `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "handshake passes",
			body:       `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unsupported method rejected",
			body:       `{"jsonrpc":"2.0","id":1,"method":"completion/complete","params":{}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty body rejected",
			body:       "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed JSON rejected",
			body:       `{"method":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing method rejected",
			body:       `{"jsonrpc":"2.0","id":1}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestMCPMethodGuard_BodyPreserved(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var seen string
	router.POST("/mcp", MCPMethodGuard(allowedMCPMethods), func(reqCtx *gin.Context) {
		data, _ := reqCtx.GetRawData()
		seen = string(data)
		reqCtx.Status(http.StatusOK)
	})

	body := `{"jsonrpc":"2.0","id":7,"method":"ping"}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if seen != body {
		t.Errorf("downstream handler saw %q, want the original body", seen)
	}
}
