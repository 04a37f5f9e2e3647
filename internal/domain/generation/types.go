// Package generation implements the request dispatch layer: argument
// validation, provider invocation, asset persistence, and the response
// envelope returned to MCP clients.
package generation

import (
	"context"
	"time"
)

// RequestKind identifies the generation capability a tool call maps to.
type RequestKind string

const (
	KindTextToImage    RequestKind = "text_to_image"
	KindImageEdit      RequestKind = "image_edit"
	KindImageBlend     RequestKind = "image_blend"
	KindTextGeneration RequestKind = "text_generation"
)

// IsImage reports whether the kind produces an image payload.
func (k RequestKind) IsImage() bool {
	return k == KindTextToImage || k == KindImageEdit || k == KindImageBlend
}

// GenerationRequest is the provider-agnostic request constructed per tool
// call. InputPaths are absolute and verified readable before dispatch.
type GenerationRequest struct {
	Kind       RequestKind
	Prompt     string
	InputPaths []string
	Hints      map[string]any
	Warnings   []string

	// Model is resolved by the provider gateway, not the caller. It is set
	// on the request after a successful invocation for bookkeeping.
	Model string
}

// StringHint returns a string-valued hint, or "" when absent.
func (r *GenerationRequest) StringHint(key string) string {
	if r.Hints == nil {
		return ""
	}
	if v, ok := r.Hints[key].(string); ok {
		return v
	}
	return ""
}

// BoolHint returns a boolean hint with a default when absent.
func (r *GenerationRequest) BoolHint(key string, def bool) bool {
	if r.Hints == nil {
		return def
	}
	if v, ok := r.Hints[key].(bool); ok {
		return v
	}
	return def
}

// RawResult is the normalized provider payload: exactly one of Data (image
// bytes) or Text is populated, according to the request kind.
type RawResult struct {
	Data     []byte
	MIMEType string
	Text     string

	// Model that actually served the request, after any fallback.
	Model string
	// AttemptedModels lists every model tried, in order, when more than one was.
	AttemptedModels []string
}

// AssetKind distinguishes persisted artifact types.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetText  AssetKind = "text"
)

// GeneratedAsset describes a persisted artifact tracked by the recent-outputs
// registry. Assets are immutable after creation; evicting a registry entry
// never deletes the underlying file.
type GeneratedAsset struct {
	Path         string    `json:"path"`
	Kind         AssetKind `json:"kind"`
	CreatedAt    time.Time `json:"created_at"`
	SourcePrompt string    `json:"source_prompt"`
	Model        string    `json:"model"`
	SizeBytes    int64     `json:"size_bytes"`
}

// ToolResponse is the envelope returned by every tool. The shape is identical
// across tools modulo the payload field (ImagePath vs Text); Success is
// always present and authoritative.
type ToolResponse struct {
	Success   bool           `json:"success"`
	ImagePath string         `json:"image_path,omitempty"`
	Text      string         `json:"text,omitempty"`
	ImageData string         `json:"image_data,omitempty"` // base64, opt-in and size-capped
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Gateway wraps the external generation provider. Implementations resolve the
// model, perform exactly one upstream call per attempt, and translate
// provider failures into the tagged error taxonomy.
type Gateway interface {
	Invoke(ctx context.Context, req *GenerationRequest) (*RawResult, error)
}

// Store persists generated payloads and tracks recent outputs.
type Store interface {
	Save(ctx context.Context, payload []byte, mimeType string, req *GenerationRequest, model string) (*GeneratedAsset, error)
	Recent(limit int) []GeneratedAsset
}
