package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"imagegen-mcp/internal/infrastructure/config"
	"imagegen-mcp/utils/apperrors"
)

// Service is the tool dispatcher. It composes normalization, provider
// invocation, and asset persistence, and converts every expected failure into
// a {success:false} envelope; the MCP transport never sees a fault for them.
type Service struct {
	gateway Gateway
	store   Store
	log     zerolog.Logger

	includeBase64  bool
	maxInlineBytes int64
}

// NewService creates the dispatcher.
func NewService(cfg *config.Config, gateway Gateway, store Store) *Service {
	return &Service{
		gateway:        gateway,
		store:          store,
		log:            log.With().Str("component", "dispatcher").Logger(),
		includeBase64:  cfg.IncludeBase64,
		maxInlineBytes: cfg.MaxInlineBytes,
	}
}

// Dispatch runs one tool call end to end and always returns an envelope.
func (s *Service) Dispatch(ctx context.Context, tool string, args map[string]any) ToolResponse {
	req, err := Normalize(tool, args)
	if err != nil {
		apperrors.LogError(s.log, err, "validation failed")
		return failureResponse(err)
	}

	result, err := s.gateway.Invoke(ctx, req)
	if err != nil {
		apperrors.LogError(s.log, err, "provider call failed")
		return failureResponse(err)
	}
	req.Model = result.Model

	if req.Kind == KindTextGeneration {
		return s.textResponse(req, result)
	}
	return s.imageResponse(ctx, req, result)
}

func (s *Service) textResponse(req *GenerationRequest, result *RawResult) ToolResponse {
	metadata := baseMetadata(req, result)
	return ToolResponse{
		Success:  true,
		Text:     result.Text,
		Message:  "Text generated successfully",
		Metadata: metadata,
	}
}

func (s *Service) imageResponse(ctx context.Context, req *GenerationRequest, result *RawResult) ToolResponse {
	asset, err := s.store.Save(ctx, result.Data, result.MIMEType, req, result.Model)
	if err != nil {
		apperrors.LogError(s.log, err, "failed to persist generated image")
		return failureResponse(err)
	}

	resp := ToolResponse{
		Success:   true,
		ImagePath: asset.Path,
		Message:   fmt.Sprintf("%s: %s", successMessage(req.Kind), filepath.Base(asset.Path)),
	}

	warnings := append([]string(nil), req.Warnings...)
	if s.includeBase64 {
		if int64(len(result.Data)) <= s.maxInlineBytes {
			resp.ImageData = base64.StdEncoding.EncodeToString(result.Data)
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"image payload (%d bytes) exceeds the inline embedding cap (%d bytes); returning path only",
				len(result.Data), s.maxInlineBytes))
		}
	}

	metadata := baseMetadata(req, result)
	metadata["size_bytes"] = asset.SizeBytes
	if len(warnings) > 0 {
		metadata["warnings"] = warnings
	}
	resp.Metadata = metadata

	s.log.Info().
		Str("tool_kind", string(req.Kind)).
		Str("path", asset.Path).
		Str("model", result.Model).
		Int64("size_bytes", asset.SizeBytes).
		Msg("asset generated")

	return resp
}

func successMessage(kind RequestKind) string {
	switch kind {
	case KindImageEdit:
		return "Image edited successfully"
	case KindImageBlend:
		return "Images blended successfully"
	default:
		return "Image generated successfully"
	}
}

// baseMetadata assembles the shared metadata map: prompt, model, and the
// recognized hints that were actually supplied.
func baseMetadata(req *GenerationRequest, result *RawResult) map[string]any {
	metadata := map[string]any{
		"prompt": req.Prompt,
		"model":  result.Model,
	}
	for key, value := range req.Hints {
		metadata[key] = value
	}
	if len(req.InputPaths) == 1 {
		metadata["original"] = req.InputPaths[0]
	} else if len(req.InputPaths) > 1 {
		metadata["source_images"] = req.InputPaths
	}
	if len(result.AttemptedModels) > 1 {
		metadata["attempted_models"] = result.AttemptedModels
	}
	return metadata
}

func failureResponse(err error) ToolResponse {
	metadata := map[string]any{
		"error_kind": string(apperrors.KindOf(err)),
	}
	message := "Error: " + err.Error()
	if appErr := apperrors.AsError(err); appErr != nil {
		message = appErr.Message
		if len(appErr.AttemptedModels) > 0 {
			metadata["attempted_models"] = appErr.AttemptedModels
		}
		if appErr.RetryAfter > 0 {
			metadata["retry_after"] = appErr.RetryAfter.String()
		}
	}
	return ToolResponse{
		Success:  false,
		Message:  message,
		Metadata: metadata,
	}
}
