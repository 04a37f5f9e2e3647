package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"imagegen-mcp/utils/apperrors"
)

// ErrorResponse is the body returned for transport-level request failures
// (malformed envelopes, unsupported methods). Tool-level failures are always
// reported inside the tool response envelope instead.
type ErrorResponse struct {
	ErrorKind string `json:"error_kind"`
	Error     string `json:"error"`
}

// HandleNewError writes a transport-level error response and aborts.
func HandleNewError(reqCtx *gin.Context, kind apperrors.Kind, message string) {
	reqCtx.AbortWithStatusJSON(statusFor(kind), ErrorResponse{
		ErrorKind: string(kind),
		Error:     message,
	})
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindAuthError:
		return http.StatusUnauthorized
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
