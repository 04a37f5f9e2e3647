package generation

import (
	"fmt"
	"os"
	"strings"

	"imagegen-mcp/internal/infrastructure/config"
	"imagegen-mcp/utils/apperrors"
)

// Tool names exposed over MCP.
const (
	ToolGenerateImage = "generate_image"
	ToolEditImage     = "edit_image"
	ToolBlendImages   = "blend_images"
	ToolGenerateText  = "generate_text"
)

// Recommended bounds for blend inputs. Fewer than the minimum is a hard
// validation failure; more than the recommended maximum is accepted with a
// quality warning, never silently truncated.
const (
	blendMinInputs         = 2
	blendRecommendedInputs = 3
)

// hintKeys whitelists the recognized optional argument keys per tool. Keys
// outside the whitelist are ignored for forward compatibility.
var hintKeys = map[string][]string{
	ToolGenerateImage: {"style", "aspect_ratio", "quality"},
	ToolEditImage:     {"preserve_style"},
	ToolBlendImages:   {"blend_mode"},
	ToolGenerateText:  {"system_instruction", "temperature", "max_output_tokens"},
}

// Normalize validates and canonicalizes raw tool arguments into a
// provider-agnostic GenerationRequest. It is pure: no provider calls, no
// writes. Every failure carries KindInvalidInput.
func Normalize(tool string, args map[string]any) (*GenerationRequest, error) {
	switch tool {
	case ToolGenerateImage:
		return normalizeGenerateImage(args)
	case ToolEditImage:
		return normalizeEditImage(args)
	case ToolBlendImages:
		return normalizeBlendImages(args)
	case ToolGenerateText:
		return normalizeGenerateText(args)
	default:
		return nil, apperrors.Newf(apperrors.KindInvalidInput, "unknown tool %q", tool)
	}
}

func normalizeGenerateImage(args map[string]any) (*GenerationRequest, error) {
	prompt, err := requireString(args, "prompt")
	if err != nil {
		return nil, err
	}
	return &GenerationRequest{
		Kind:   KindTextToImage,
		Prompt: prompt,
		Hints:  collectHints(ToolGenerateImage, args),
	}, nil
}

func normalizeEditImage(args map[string]any) (*GenerationRequest, error) {
	path, err := requireString(args, "image_path")
	if err != nil {
		return nil, err
	}
	instructions, err := requireString(args, "instructions")
	if err != nil {
		return nil, err
	}
	resolved, err := resolveInputPath(path)
	if err != nil {
		return nil, err
	}
	return &GenerationRequest{
		Kind:       KindImageEdit,
		Prompt:     instructions,
		InputPaths: []string{resolved},
		Hints:      collectHints(ToolEditImage, args),
	}, nil
}

func normalizeBlendImages(args map[string]any) (*GenerationRequest, error) {
	raw, ok := args["image_paths"]
	if !ok {
		return nil, apperrors.New(apperrors.KindInvalidInput, "missing required argument: image_paths")
	}
	paths, err := toStringSlice(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "image_paths must be a list of strings", err)
	}
	instructions, err := requireString(args, "instructions")
	if err != nil {
		return nil, err
	}

	if len(paths) < blendMinInputs {
		return nil, apperrors.Newf(apperrors.KindInvalidInput,
			"blend_images requires at least %d image paths, got %d", blendMinInputs, len(paths))
	}

	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		rp, err := resolveInputPath(p)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, rp)
	}

	req := &GenerationRequest{
		Kind:       KindImageBlend,
		Prompt:     instructions,
		InputPaths: resolved,
		Hints:      collectHints(ToolBlendImages, args),
	}
	if len(resolved) > blendRecommendedInputs {
		req.Warnings = append(req.Warnings, fmt.Sprintf(
			"%d input images exceed the recommended maximum of %d; blend quality may degrade",
			len(resolved), blendRecommendedInputs))
	}
	return req, nil
}

func normalizeGenerateText(args map[string]any) (*GenerationRequest, error) {
	prompt, err := requireString(args, "prompt")
	if err != nil {
		return nil, err
	}
	return &GenerationRequest{
		Kind:   KindTextGeneration,
		Prompt: prompt,
		Hints:  collectHints(ToolGenerateText, args),
	}, nil
}

// resolveInputPath expands and absolutizes a caller-supplied path and
// verifies it is an existing, readable, regular file. Violations fail here so
// no provider call is ever wasted on unreadable inputs.
func resolveInputPath(path string) (string, error) {
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return "", apperrors.Newf(apperrors.KindInvalidInput, "invalid image path %q", path)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.Newf(apperrors.KindInvalidInput, "image not found: %s", resolved)
		}
		return "", apperrors.Wrap(apperrors.KindInvalidInput, fmt.Sprintf("cannot access image: %s", resolved), err)
	}
	if !info.Mode().IsRegular() {
		return "", apperrors.Newf(apperrors.KindInvalidInput, "not a regular file: %s", resolved)
	}
	f, err := os.Open(resolved)
	if err != nil {
		return "", apperrors.Newf(apperrors.KindInvalidInput, "image not readable: %s", resolved)
	}
	_ = f.Close()
	return resolved, nil
}

func requireString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", apperrors.Newf(apperrors.KindInvalidInput, "missing required argument: %s", key)
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", apperrors.Newf(apperrors.KindInvalidInput, "argument %s must be a non-empty string", key)
	}
	return strings.TrimSpace(s), nil
}

func collectHints(tool string, args map[string]any) map[string]any {
	hints := make(map[string]any)
	for _, key := range hintKeys[tool] {
		if v, ok := args[key]; ok && v != nil {
			hints[key] = v
		}
	}
	return hints
}

func toStringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is not a string", i)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected type %T", raw)
	}
}
