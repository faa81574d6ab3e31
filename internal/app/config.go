package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
)

type Config struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`

	// Language is the preferred response language ("en" or "hi").
	Language     string `yaml:"language"`
	VoiceEnabled bool   `yaml:"voice_enabled"`

	// Storage selects the session backend: "json" (default) or "sqlite".
	Storage  string `yaml:"storage"`
	DataRoot string `yaml:"data_root"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Model:     DefaultModel,
		MaxTokens: 1024,
		Language:  string(LangEnglish),
		Storage:   "json",
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return applyEnv(cfg), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if _, ok := ParseLang(cfg.Language); !ok {
		cfg.Language = string(LangEnglish)
	}
	switch strings.TrimSpace(cfg.Storage) {
	case "sqlite":
		cfg.Storage = "sqlite"
	default:
		cfg.Storage = "json"
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("MITRA_API_KEY")
	}
	if v := os.Getenv("MITRA_BASE_URL"); v != "" && cfg.BaseURL == DefaultBaseURL {
		cfg.BaseURL = v
	}
	return cfg
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "mitra", "config.yml")
}

// DefaultDataRoot mirrors the XDG layout used for config.
func DefaultDataRoot() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "mitra")
	}
	if base, err := os.UserHomeDir(); err == nil && base != "" {
		return filepath.Join(base, ".local", "share", "mitra")
	}
	return filepath.Join(os.TempDir(), "mitra")
}

func (c Config) Root() string {
	if strings.TrimSpace(c.DataRoot) != "" {
		return c.DataRoot
	}
	return DefaultDataRoot()
}

func (c Config) Lang() Lang {
	l, _ := ParseLang(c.Language)
	return l
}
