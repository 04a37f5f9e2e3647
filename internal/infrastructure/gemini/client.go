// Package gemini wraps the Google GenAI SDK as the generation provider
// gateway: model selection and fallback, payload normalization, and
// translation of provider failures into the tagged error taxonomy.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"imagegen-mcp/internal/domain/generation"
	"imagegen-mcp/internal/infrastructure/config"
	"imagegen-mcp/internal/infrastructure/metrics"
	"imagegen-mcp/utils/apperrors"
)

// generateFunc performs one upstream generation call. Tests substitute it to
// exercise fallback and mapping logic without the network.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client is the provider gateway. Image requests use the configured image
// model as-is; text requests walk the configured fallback list, retrying only
// on model-unavailability. Exactly one upstream call is made per attempt.
type Client struct {
	cfg      *config.Config
	presets  *Presets
	http     *resty.Client
	log      zerolog.Logger
	generate generateFunc
}

// NewClient initializes the gateway. A missing API key does not fail
// construction; invocations surface AUTH_ERROR instead so the status
// resource can still report the configuration state.
func NewClient(ctx context.Context, cfg *config.Config, presets *Presets) (*Client, error) {
	c := &Client{
		cfg:     cfg,
		presets: presets,
		http: resty.New().
			SetTimeout(60 * time.Second).
			SetHeader("x-goog-api-key", cfg.APIKey),
		log: log.With().Str("component", "gemini-gateway").Logger(),
	}

	if !cfg.HasAPIKey() {
		c.log.Warn().Msg("no API key configured; generation calls will fail until one is provided")
		return c, nil
	}

	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}
	c.generate = func(ctx context.Context, model string, contents []*genai.Content, gc *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return sdk.Models.GenerateContent(ctx, model, contents, gc)
	}
	c.log.Info().
		Str("image_model", cfg.ImageModel).
		Strs("text_models", cfg.TextModelCandidates()).
		Msg("gemini client initialized")
	return c, nil
}

// Invoke runs one generation request against the provider.
func (c *Client) Invoke(ctx context.Context, req *generation.GenerationRequest) (*generation.RawResult, error) {
	if c.generate == nil {
		return nil, apperrors.New(apperrors.KindAuthError,
			"API key not configured; set GEMINI_API_KEY or add api_key to the config file")
	}

	contents, err := c.buildContents(req)
	if err != nil {
		return nil, err
	}
	genCfg := c.buildGenerateConfig(req)

	candidates := c.modelCandidates(req.Kind)
	attempted := make([]string, 0, len(candidates))

	var lastErr error
	for _, model := range candidates {
		attempted = append(attempted, model)

		start := time.Now()
		resp, err := c.generate(ctx, model, contents, genCfg)
		metrics.RecordProviderLatency(model, time.Since(start).Seconds())

		if err != nil {
			mapped := c.mapError(err)
			lastErr = mapped
			// Only model unavailability moves to the next candidate. Auth,
			// quota, and policy failures are final for the whole sequence.
			if apperrors.IsKind(mapped, apperrors.KindModelUnavailable) && req.Kind == generation.KindTextGeneration {
				c.log.Warn().Str("model", model).Msg("model unavailable, trying next candidate")
				continue
			}
			return nil, mapped
		}

		if blockErr := blockedError(resp); blockErr != nil {
			return nil, blockErr
		}

		result, err := c.decodeResult(ctx, req.Kind, resp)
		if err != nil {
			return nil, err
		}
		result.Model = model
		result.AttemptedModels = attempted
		return result, nil
	}

	if appErr := apperrors.AsError(lastErr); appErr != nil {
		appErr.AttemptedModels = attempted
		appErr.Message = fmt.Sprintf("%s (attempted models: %s)", appErr.Message, strings.Join(attempted, ", "))
		return nil, appErr
	}
	return nil, apperrors.Wrap(apperrors.KindProviderFailure, "all configured models failed", lastErr)
}

func (c *Client) modelCandidates(kind generation.RequestKind) []string {
	if kind == generation.KindTextGeneration {
		return c.cfg.TextModelCandidates()
	}
	// Image-capable models are narrowly scoped; a wrong choice should
	// surface immediately rather than silently fall back.
	return []string{c.cfg.ImageModel}
}

// buildContents assembles the request parts: input images first, the
// (possibly enhanced) prompt last, matching provider guidance.
func (c *Client) buildContents(req *generation.GenerationRequest) ([]*genai.Content, error) {
	parts := make([]*genai.Part, 0, len(req.InputPaths)+1)

	for _, path := range req.InputPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			// Paths were validated by the normalizer; a race with external
			// deletion still classifies as invalid input, not provider failure.
			return nil, apperrors.Wrap(apperrors.KindInvalidInput,
				fmt.Sprintf("failed to read input image %s", path), err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mimeForPath(path)))
	}

	parts = append(parts, genai.NewPartFromText(c.buildPrompt(req)))

	return []*genai.Content{{Role: genai.RoleUser, Parts: parts}}, nil
}

// buildPrompt applies preset style modifiers and hint suffixes for image
// requests; text prompts pass through untouched.
func (c *Client) buildPrompt(req *generation.GenerationRequest) string {
	switch req.Kind {
	case generation.KindTextToImage:
		prompt := req.Prompt
		if style := req.StringHint("style"); style != "" {
			if modifier, ok := c.presets.StyleModifiers[style]; ok {
				prompt += ", " + modifier
			}
		}
		if ratio := req.StringHint("aspect_ratio"); ratio != "" && ratio != "1:1" {
			prompt += ", aspect ratio " + ratio
		}
		if req.StringHint("quality") == "high" {
			prompt += ", ultra high quality, 8K resolution, masterpiece"
		}
		return prompt
	case generation.KindImageEdit:
		prompt := "Edit this image: " + req.Prompt
		if req.BoolHint("preserve_style", true) {
			prompt += ". Preserve the original style, lighting, and composition unless instructed otherwise."
		}
		return prompt
	case generation.KindImageBlend:
		mode := req.StringHint("blend_mode")
		return c.presets.BlendInstruction(mode) + ". " + req.Prompt
	default:
		return req.Prompt
	}
}

func (c *Client) buildGenerateConfig(req *generation.GenerationRequest) *genai.GenerateContentConfig {
	if req.Kind.IsImage() {
		return &genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		}
	}

	genCfg := &genai.GenerateContentConfig{}
	if sys := req.StringHint("system_instruction"); sys != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(sys)},
		}
	}
	if temp, ok := req.Hints["temperature"].(float64); ok {
		genCfg.Temperature = genai.Ptr(float32(temp))
	}
	if maxTokens, ok := req.Hints["max_output_tokens"].(float64); ok && maxTokens > 0 {
		genCfg.MaxOutputTokens = int32(maxTokens)
	}
	return genCfg
}

// decodeResult normalizes the provider response: inline blobs and
// provider-side file references both end up as a single in-memory payload.
func (c *Client) decodeResult(ctx context.Context, kind generation.RequestKind, resp *genai.GenerateContentResponse) (*generation.RawResult, error) {
	if kind == generation.KindTextGeneration {
		text := collectText(resp)
		if text == "" {
			return nil, apperrors.New(apperrors.KindProviderFailure, "provider returned no text content")
		}
		return &generation.RawResult{Text: text}, nil
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &generation.RawResult{
					Data:     part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
				}, nil
			}
			if part.FileData != nil && part.FileData.FileURI != "" {
				data, err := c.fetchFileData(ctx, part.FileData.FileURI)
				if err != nil {
					return nil, err
				}
				return &generation.RawResult{
					Data:     data,
					MIMEType: part.FileData.MIMEType,
				}, nil
			}
		}
	}
	return nil, apperrors.New(apperrors.KindProviderFailure, "provider returned no image data")
}

// fetchFileData downloads a provider-side file reference.
func (c *Client) fetchFileData(ctx context.Context, uri string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(uri)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindProviderFailure,
			fmt.Sprintf("failed to download provider file %s", uri), err)
	}
	if resp.IsError() {
		return nil, apperrors.Newf(apperrors.KindProviderFailure,
			"provider file download returned status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// blockedError detects a content-policy rejection. The returned message
// names the category but never echoes the rejected content.
func blockedError(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return apperrors.New(apperrors.KindProviderFailure, "provider returned an empty response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return apperrors.Newf(apperrors.KindContentBlocked,
			"request was blocked by the provider content policy (reason: %s)",
			resp.PromptFeedback.BlockReason)
	}
	for _, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety ||
			cand.FinishReason == genai.FinishReasonProhibitedContent {
			return apperrors.Newf(apperrors.KindContentBlocked,
				"response was blocked by the provider content policy (reason: %s)",
				cand.FinishReason)
		}
	}
	return nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// mapError collapses provider exceptions into the tagged taxonomy at the
// gateway boundary; downstream components depend only on the kind.
func (c *Client) mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return apperrors.Wrap(apperrors.KindAuthError, "provider rejected the API credentials", err)
		case apiErr.Code == 429:
			mapped := apperrors.Wrap(apperrors.KindRateLimited, "provider rate limit or quota exceeded", err)
			mapped.RetryAfter = retryAfterHint(apiErr)
			return mapped
		case apiErr.Code == 404 || apiErr.Status == "NOT_FOUND":
			return apperrors.Wrap(apperrors.KindModelUnavailable, "requested model is not available", err)
		case apiErr.Code == 400 && strings.Contains(strings.ToLower(apiErr.Message), "api key"):
			return apperrors.Wrap(apperrors.KindAuthError, "provider rejected the API key", err)
		}
		return apperrors.Wrap(apperrors.KindProviderFailure,
			fmt.Sprintf("provider call failed with status %d", apiErr.Code), err)
	}
	return apperrors.Wrap(apperrors.KindProviderFailure, "provider call failed", err)
}

// retryAfterHint extracts the retry delay from the error details when the
// provider supplied one.
func retryAfterHint(apiErr genai.APIError) time.Duration {
	for _, detail := range apiErr.Details {
		raw, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return 0
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	default:
		return "image/png"
	}
}
