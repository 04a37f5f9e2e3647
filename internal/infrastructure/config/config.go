package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// configFileName is the optional per-user config file consulted when the
// corresponding environment variables are unset.
const configFileName = ".imagegen_mcp.json"

// Config holds all configuration for the image generation MCP server.
// It is populated once at startup and never mutated afterwards.
type Config struct {
	// Transport
	Transport string `env:"MCP_TRANSPORT" envDefault:"http"` // http or stdio
	HTTPPort  string `env:"IMAGEGEN_HTTP_PORT" envDefault:"8096"`
	LogLevel  string `env:"IMAGEGEN_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"IMAGEGEN_LOG_FORMAT" envDefault:"json"` // json or console

	// Provider credentials and models
	APIKey             string   `env:"GEMINI_API_KEY"`
	ImageModel         string   `env:"GENAI_IMAGE_MODEL" envDefault:"models/gemini-2.5-flash-image-preview"`
	TextModel          string   `env:"GENAI_TEXT_MODEL" envDefault:"models/gemini-2.5-flash"`
	TextModelFallbacks []string `env:"GENAI_TEXT_MODEL_FALLBACKS" envSeparator:"," envDefault:"models/gemini-2.5-flash-lite,models/gemini-2.0-flash"`

	// Output handling
	OutputDir        string `env:"IMAGEGEN_OUTPUT_DIR"`
	RegistryCapacity int    `env:"IMAGEGEN_REGISTRY_CAPACITY" envDefault:"50"`
	IncludeBase64    bool   `env:"IMAGEGEN_INCLUDE_BASE64" envDefault:"false"`
	MaxInlineBytes   int64  `env:"IMAGEGEN_MAX_INLINE_BYTES" envDefault:"1048576"`

	// Optional YAML file overriding the built-in style/blend preset tables.
	PresetsFile string `env:"IMAGEGEN_PRESETS_FILE"`
}

// fileConfig is the shape of the optional JSON config file. Environment
// variables take precedence over every field in it.
type fileConfig struct {
	APIKey    string `json:"api_key"`
	OutputDir string `json:"output_dir"`
}

// LoadConfig loads configuration from environment variables, falling back to
// the per-user JSON config file for the API key and output directory.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.APIKey == "" || cfg.OutputDir == "" {
		file, err := readFileConfig()
		if err != nil {
			return nil, err
		}
		if file != nil {
			if cfg.APIKey == "" {
				cfg.APIKey = file.APIKey
			}
			if cfg.OutputDir == "" {
				cfg.OutputDir = file.OutputDir
			}
		}
	}

	if cfg.OutputDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory for default output dir: %w", err)
		}
		cfg.OutputDir = filepath.Join(home, "mcp_generated_images")
	}

	resolved, err := ExpandPath(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("invalid output dir %q: %w", cfg.OutputDir, err)
	}
	cfg.OutputDir = resolved

	if cfg.Transport != "http" && cfg.Transport != "stdio" {
		return nil, fmt.Errorf("unsupported MCP_TRANSPORT %q (expected http or stdio)", cfg.Transport)
	}
	if cfg.RegistryCapacity <= 0 {
		return nil, fmt.Errorf("IMAGEGEN_REGISTRY_CAPACITY must be positive, got %d", cfg.RegistryCapacity)
	}
	if cfg.MaxInlineBytes <= 0 {
		return nil, fmt.Errorf("IMAGEGEN_MAX_INLINE_BYTES must be positive, got %d", cfg.MaxInlineBytes)
	}

	return cfg, nil
}

// TextModelCandidates returns the preferred text model followed by the
// configured fallbacks, deduplicated, in attempt order.
func (c *Config) TextModelCandidates() []string {
	candidates := make([]string, 0, len(c.TextModelFallbacks)+1)
	seen := make(map[string]bool)
	for _, m := range append([]string{c.TextModel}, c.TextModelFallbacks...) {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		candidates = append(candidates, m)
	}
	return candidates
}

// HasAPIKey reports whether a provider API key is configured. The key value
// itself is never exposed through any resource.
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func readFileConfig() (*fileConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}
	path := filepath.Join(home, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var file fileConfig
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &file, nil
}

// ExpandPath resolves a leading ~ and converts relative paths to absolute.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
