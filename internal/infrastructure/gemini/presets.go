package gemini

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Presets holds the prompt-enhancement tables: free-form style hints mapped
// to prompt modifiers, and blend modes mapped to composition instructions.
type Presets struct {
	StyleModifiers map[string]string `yaml:"style_modifiers"`
	BlendModes     map[string]string `yaml:"blend_modes"`
}

const defaultBlendMode = "natural"

func defaultPresets() *Presets {
	return &Presets{
		StyleModifiers: map[string]string{
			"realistic":  "photorealistic, high detail, professional photography",
			"cartoon":    "cartoon style, animated, colorful, playful",
			"abstract":   "abstract art, creative, artistic interpretation",
			"minimalist": "minimalist design, simple, clean lines",
			"vintage":    "vintage style, retro, nostalgic aesthetics",
		},
		BlendModes: map[string]string{
			"natural":  "Blend these images naturally, maintaining realistic proportions and lighting",
			"artistic": "Create an artistic composition combining elements from all images creatively",
			"seamless": "Merge these images seamlessly as if they were always one cohesive scene",
		},
	}
}

// LoadPresets returns the preset tables, overridden by the YAML file at
// configPath when one is configured. A missing path keeps the defaults.
func LoadPresets(configPath string) (*Presets, error) {
	presets := defaultPresets()
	if configPath == "" {
		return presets, nil
	}

	data, err := os.ReadFile(os.ExpandEnv(configPath))
	if err != nil {
		if os.IsNotExist(err) {
			return presets, nil
		}
		return nil, fmt.Errorf("failed to read presets file %s: %w", configPath, err)
	}

	var file Presets
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets file %s: %w", configPath, err)
	}
	for k, v := range file.StyleModifiers {
		presets.StyleModifiers[k] = v
	}
	for k, v := range file.BlendModes {
		presets.BlendModes[k] = v
	}
	return presets, nil
}

// BlendInstruction resolves a blend mode to its composition instruction,
// falling back to the natural mode for unknown values.
func (p *Presets) BlendInstruction(mode string) string {
	if instruction, ok := p.BlendModes[mode]; ok {
		return instruction
	}
	return p.BlendModes[defaultBlendMode]
}
