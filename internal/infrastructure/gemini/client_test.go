package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"imagegen-mcp/internal/domain/generation"
	"imagegen-mcp/internal/infrastructure/config"
	"imagegen-mcp/utils/apperrors"
)

func testConfig() *config.Config {
	return &config.Config{
		APIKey:             "test-key",
		ImageModel:         "models/image-primary",
		TextModel:          "models/text-primary",
		TextModelFallbacks: []string{"models/text-fallback-1", "models/text-fallback-2"},
	}
}

func testClient(generate generateFunc) *Client {
	return &Client{
		cfg:      testConfig(),
		presets:  defaultPresets(),
		log:      zerolog.Nop(),
		generate: generate,
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func imageResponse(data []byte, mimeType string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{
				InlineData: &genai.Blob{Data: data, MIMEType: mimeType},
			}}},
		}},
	}
}

func TestInvoke_NoAPIKey(t *testing.T) {
	c := testClient(nil)

	_, err := c.Invoke(context.Background(), &generation.GenerationRequest{
		Kind:   generation.KindTextToImage,
		Prompt: "a fox",
	})
	if !apperrors.IsKind(err, apperrors.KindAuthError) {
		t.Errorf("error kind = %v, want AUTH_ERROR", apperrors.KindOf(err))
	}
}

func TestInvoke_TextFallback(t *testing.T) {
	var called []string
	c := testClient(func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		called = append(called, model)
		if len(called) < 3 {
			return nil, genai.APIError{Code: 404, Status: "NOT_FOUND", Message: "model not found"}
		}
		return textResponse("hello"), nil
	})

	result, err := c.Invoke(context.Background(), &generation.GenerationRequest{
		Kind:   generation.KindTextGeneration,
		Prompt: "say hello",
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result.Model != "models/text-fallback-2" {
		t.Errorf("served model = %q, want the third candidate", result.Model)
	}
	if len(result.AttemptedModels) != 3 {
		t.Errorf("attempted = %v, want all three", result.AttemptedModels)
	}
	if result.Text != "hello" {
		t.Errorf("text = %q", result.Text)
	}
}

func TestInvoke_TextFallbackExhausted(t *testing.T) {
	c := testClient(func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, genai.APIError{Code: 404, Status: "NOT_FOUND", Message: "model not found"}
	})

	_, err := c.Invoke(context.Background(), &generation.GenerationRequest{
		Kind:   generation.KindTextGeneration,
		Prompt: "say hello",
	})
	if !apperrors.IsKind(err, apperrors.KindModelUnavailable) {
		t.Fatalf("error kind = %v, want MODEL_UNAVAILABLE", apperrors.KindOf(err))
	}
	appErr := apperrors.AsError(err)
	if len(appErr.AttemptedModels) != 3 {
		t.Errorf("attempted = %v, want all three candidates", appErr.AttemptedModels)
	}
	if !strings.Contains(appErr.Message, "attempted models") {
		t.Errorf("message should name the attempted models: %s", appErr.Message)
	}
}

func TestInvoke_ImageModelNoFallback(t *testing.T) {
	var called []string
	c := testClient(func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		called = append(called, model)
		return nil, genai.APIError{Code: 404, Status: "NOT_FOUND", Message: "model not found"}
	})

	_, err := c.Invoke(context.Background(), &generation.GenerationRequest{
		Kind:   generation.KindTextToImage,
		Prompt: "a fox",
	})
	if !apperrors.IsKind(err, apperrors.KindModelUnavailable) {
		t.Errorf("error kind = %v, want MODEL_UNAVAILABLE", apperrors.KindOf(err))
	}
	if len(called) != 1 {
		t.Errorf("image requests must not fall back, got %d calls", len(called))
	}
}

func TestInvoke_AuthErrorIsFinal(t *testing.T) {
	var calls int
	c := testClient(func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		calls++
		return nil, genai.APIError{Code: 401, Message: "invalid credentials"}
	})

	_, err := c.Invoke(context.Background(), &generation.GenerationRequest{
		Kind:   generation.KindTextGeneration,
		Prompt: "say hello",
	})
	if !apperrors.IsKind(err, apperrors.KindAuthError) {
		t.Errorf("error kind = %v, want AUTH_ERROR", apperrors.KindOf(err))
	}
	if calls != 1 {
		t.Errorf("auth failures must not trigger fallback, got %d calls", calls)
	}
}

func TestInvoke_ImageSuccess(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	c := testClient(func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return imageResponse(payload, "image/png"), nil
	})

	result, err := c.Invoke(context.Background(), &generation.GenerationRequest{
		Kind:   generation.KindTextToImage,
		Prompt: "a fox",
	})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if string(result.Data) != string(payload) {
		t.Error("payload mismatch")
	}
	if result.MIMEType != "image/png" {
		t.Errorf("mime = %s", result.MIMEType)
	}
	if result.Model != "models/image-primary" {
		t.Errorf("model = %s", result.Model)
	}
}

func TestInvoke_ContentBlocked(t *testing.T) {
	t.Run("prompt feedback", func(t *testing.T) {
		c := testClient(func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason: genai.BlockedReasonSafety,
				},
			}, nil
		})

		_, err := c.Invoke(context.Background(), &generation.GenerationRequest{
			Kind:   generation.KindTextToImage,
			Prompt: "something disallowed",
		})
		if !apperrors.IsKind(err, apperrors.KindContentBlocked) {
			t.Errorf("error kind = %v, want CONTENT_BLOCKED", apperrors.KindOf(err))
		}
		if strings.Contains(err.Error(), "something disallowed") {
			t.Error("blocked error must not echo the rejected prompt")
		}
	})

	t.Run("safety finish reason", func(t *testing.T) {
		c := testClient(func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}, nil
		})

		_, err := c.Invoke(context.Background(), &generation.GenerationRequest{
			Kind:   generation.KindTextToImage,
			Prompt: "something disallowed",
		})
		if !apperrors.IsKind(err, apperrors.KindContentBlocked) {
			t.Errorf("error kind = %v, want CONTENT_BLOCKED", apperrors.KindOf(err))
		}
	})
}

func TestMapError(t *testing.T) {
	c := testClient(nil)

	tests := []struct {
		name     string
		err      error
		expected apperrors.Kind
	}{
		{name: "401", err: genai.APIError{Code: 401}, expected: apperrors.KindAuthError},
		{name: "403", err: genai.APIError{Code: 403}, expected: apperrors.KindAuthError},
		{name: "429", err: genai.APIError{Code: 429}, expected: apperrors.KindRateLimited},
		{name: "404", err: genai.APIError{Code: 404}, expected: apperrors.KindModelUnavailable},
		{name: "NOT_FOUND status", err: genai.APIError{Code: 400, Status: "NOT_FOUND"}, expected: apperrors.KindModelUnavailable},
		{name: "400 api key", err: genai.APIError{Code: 400, Message: "API key not valid"}, expected: apperrors.KindAuthError},
		{name: "500", err: genai.APIError{Code: 500}, expected: apperrors.KindProviderFailure},
		{name: "plain error", err: errors.New("dial tcp: timeout"), expected: apperrors.KindProviderFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperrors.KindOf(c.mapError(tt.err)); got != tt.expected {
				t.Errorf("mapError() kind = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMapError_RetryAfterHint(t *testing.T) {
	err := c429WithRetryDelay("21s")
	mapped := testClient(nil).mapError(err)

	appErr := apperrors.AsError(mapped)
	if appErr == nil {
		t.Fatal("expected a tagged error")
	}
	if appErr.RetryAfter != 21*time.Second {
		t.Errorf("RetryAfter = %v, want 21s", appErr.RetryAfter)
	}
}

func c429WithRetryDelay(delay string) error {
	return genai.APIError{
		Code: 429,
		Details: []map[string]any{
			{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": delay},
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	c := testClient(nil)

	tests := []struct {
		name     string
		req      *generation.GenerationRequest
		contains []string
		excludes []string
	}{
		{
			name: "style modifier appended",
			req: &generation.GenerationRequest{
				Kind:   generation.KindTextToImage,
				Prompt: "a fox",
				Hints:  map[string]any{"style": "realistic"},
			},
			contains: []string{"a fox", "photorealistic"},
		},
		{
			name: "unknown style passes through",
			req: &generation.GenerationRequest{
				Kind:   generation.KindTextToImage,
				Prompt: "a fox",
				Hints:  map[string]any{"style": "cubist"},
			},
			contains: []string{"a fox"},
			excludes: []string{"cubist"},
		},
		{
			name: "square aspect ratio omitted",
			req: &generation.GenerationRequest{
				Kind:   generation.KindTextToImage,
				Prompt: "a fox",
				Hints:  map[string]any{"aspect_ratio": "1:1"},
			},
			excludes: []string{"aspect ratio"},
		},
		{
			name: "wide aspect ratio appended",
			req: &generation.GenerationRequest{
				Kind:   generation.KindTextToImage,
				Prompt: "a fox",
				Hints:  map[string]any{"aspect_ratio": "16:9"},
			},
			contains: []string{"aspect ratio 16:9"},
		},
		{
			name: "high quality suffix",
			req: &generation.GenerationRequest{
				Kind:   generation.KindTextToImage,
				Prompt: "a fox",
				Hints:  map[string]any{"quality": "high"},
			},
			contains: []string{"ultra high quality"},
		},
		{
			name: "edit preserves style by default",
			req: &generation.GenerationRequest{
				Kind:   generation.KindImageEdit,
				Prompt: "make it brighter",
			},
			contains: []string{"Edit this image:", "Preserve the original style"},
		},
		{
			name: "edit without style preservation",
			req: &generation.GenerationRequest{
				Kind:   generation.KindImageEdit,
				Prompt: "make it brighter",
				Hints:  map[string]any{"preserve_style": false},
			},
			contains: []string{"Edit this image:"},
			excludes: []string{"Preserve the original style"},
		},
		{
			name: "blend mode instruction prefixed",
			req: &generation.GenerationRequest{
				Kind:   generation.KindImageBlend,
				Prompt: "combine them",
				Hints:  map[string]any{"blend_mode": "seamless"},
			},
			contains: []string{"seamlessly", "combine them"},
		},
		{
			name: "unknown blend mode falls back to natural",
			req: &generation.GenerationRequest{
				Kind:   generation.KindImageBlend,
				Prompt: "combine them",
				Hints:  map[string]any{"blend_mode": "chaotic"},
			},
			contains: []string{"naturally"},
		},
		{
			name: "text prompt untouched",
			req: &generation.GenerationRequest{
				Kind:   generation.KindTextGeneration,
				Prompt: "write a haiku",
			},
			contains: []string{"write a haiku"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.buildPrompt(tt.req)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("prompt %q should contain %q", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("prompt %q should not contain %q", got, unwanted)
				}
			}
		})
	}
}

func TestBuildGenerateConfig(t *testing.T) {
	c := testClient(nil)

	t.Run("image requests ask for image modality", func(t *testing.T) {
		cfg := c.buildGenerateConfig(&generation.GenerationRequest{Kind: generation.KindTextToImage})
		if len(cfg.ResponseModalities) != 2 || cfg.ResponseModalities[0] != "IMAGE" {
			t.Errorf("ResponseModalities = %v", cfg.ResponseModalities)
		}
	})

	t.Run("text hints map to generation config", func(t *testing.T) {
		cfg := c.buildGenerateConfig(&generation.GenerationRequest{
			Kind: generation.KindTextGeneration,
			Hints: map[string]any{
				"system_instruction": "be terse",
				"temperature":        0.2,
				"max_output_tokens":  float64(128),
			},
		})
		if cfg.SystemInstruction == nil {
			t.Fatal("SystemInstruction should be set")
		}
		if cfg.Temperature == nil || *cfg.Temperature != 0.2 {
			t.Errorf("Temperature = %v", cfg.Temperature)
		}
		if cfg.MaxOutputTokens != 128 {
			t.Errorf("MaxOutputTokens = %d", cfg.MaxOutputTokens)
		}
	})
}

func TestMimeForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.jpg", "image/jpeg"},
		{"photo.JPEG", "image/jpeg"},
		{"anim.gif", "image/gif"},
		{"modern.webp", "image/webp"},
		{"pic.png", "image/png"},
		{"unknown.xyz", "image/png"},
	}

	for _, tt := range tests {
		if got := mimeForPath(tt.path); got != tt.want {
			t.Errorf("mimeForPath(%s) = %s, want %s", tt.path, got, tt.want)
		}
	}
}
