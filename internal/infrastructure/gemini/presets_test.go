package gemini

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPresets_Defaults(t *testing.T) {
	presets, err := LoadPresets("")
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if _, ok := presets.StyleModifiers["realistic"]; !ok {
		t.Error("default style modifiers missing")
	}
	if _, ok := presets.BlendModes["natural"]; !ok {
		t.Error("default blend modes missing")
	}
}

func TestLoadPresets_MissingFileKeepsDefaults(t *testing.T) {
	presets, err := LoadPresets(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(presets.StyleModifiers) == 0 {
		t.Error("missing file should keep defaults")
	}
}

func TestLoadPresets_FileOverridesAndExtends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	content := `style_modifiers:
  realistic: "hyperrealistic, 85mm lens"
  noir: "black and white, film noir lighting"
blend_modes:
  collage: "Arrange the images as a flat collage"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write presets file: %v", err)
	}

	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}

	if presets.StyleModifiers["realistic"] != "hyperrealistic, 85mm lens" {
		t.Errorf("file should override defaults, got %q", presets.StyleModifiers["realistic"])
	}
	if presets.StyleModifiers["noir"] == "" {
		t.Error("new styles from the file should be added")
	}
	if presets.StyleModifiers["cartoon"] == "" {
		t.Error("untouched defaults should survive a partial override")
	}
	if presets.BlendModes["collage"] == "" {
		t.Error("new blend modes from the file should be added")
	}
}

func TestLoadPresets_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte("style_modifiers: [not a map"), 0o644); err != nil {
		t.Fatalf("write presets file: %v", err)
	}

	if _, err := LoadPresets(path); err == nil {
		t.Error("malformed YAML should be rejected")
	}
}

func TestBlendInstruction(t *testing.T) {
	presets := defaultPresets()

	if got := presets.BlendInstruction("artistic"); got != presets.BlendModes["artistic"] {
		t.Errorf("known mode should resolve directly, got %q", got)
	}
	if got := presets.BlendInstruction("unknown"); got != presets.BlendModes["natural"] {
		t.Errorf("unknown mode should fall back to natural, got %q", got)
	}
	if got := presets.BlendInstruction(""); got != presets.BlendModes["natural"] {
		t.Errorf("empty mode should fall back to natural, got %q", got)
	}
}
