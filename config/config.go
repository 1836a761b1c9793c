package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	LLM    LLMConfig    `toml:"llm"`
	Server ServerConfig `toml:"server"`
	Output OutputConfig `toml:"output"`
	Log    LogConfig    `toml:"log"`
}

// LLMConfig 描述补全接口。groq / deepseek 使用 OpenAI 兼容地址。
type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr                  string `toml:"addr"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// OutputConfig controls where saved markdown files go (terminal and one-shot modes).
type OutputConfig struct {
	Dir string `toml:"dir"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

const defaultConfigContent = `[llm]
provider = "groq"                 # "groq", "openai", "deepseek" or "mock"
model = "qwen-2.5-32b"
api_key = ""                      # or set GROQ_API_KEY / LLM_API_KEY
base_url = ""                     # required for deepseek

[server]
addr = ":8080"
request_timeout_seconds = 120

[output]
dir = "."

[log]
level = "info"
`

// Overrides are command-line values that take precedence over the file. They
// are applied before environment overrides so the API key is chosen for the
// final provider.
type Overrides struct {
	Provider string
}

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file.
func Load(path string) (*Config, error) {
	return LoadWithOverrides(path, Overrides{})
}

// LoadWithOverrides is Load with command-line overrides applied on top of the
// file and before environment variables and validation.
func LoadWithOverrides(path string, ov Overrides) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown config keys ignored", "keys", fmt.Sprint(undecoded))
	}

	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyOverrides(&cfg, ov)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is involved.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit catches "request_timeout_seconds = 0", which would
// otherwise be replaced by the default.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "request_timeout_seconds") && cfg.Server.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("invalid server.request_timeout_seconds %d: must be >= 1", cfg.Server.RequestTimeoutSeconds)
	}
	if md.IsDefined("server", "addr") && cfg.Server.Addr == "" {
		return errors.New("invalid server.addr: must not be empty")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "groq"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "qwen-2.5-32b"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.RequestTimeoutSeconds == 0 {
		cfg.Server.RequestTimeoutSeconds = 120
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// applyOverrides switches provider. The file's api_key and base_url belong to
// the file's provider, so they are dropped when the provider changes.
func applyOverrides(cfg *Config, ov Overrides) {
	if ov.Provider == "" || ov.Provider == cfg.LLM.Provider {
		return
	}
	cfg.LLM.Provider = ov.Provider
	cfg.LLM.APIKey = ""
	cfg.LLM.BaseURL = ""
}

// applyEnvOverrides applies environment variable overrides.
//
// Priority for llm.api_key:
//  1. LLM_API_KEY (highest)
//  2. GROQ_API_KEY / OPENAI_API_KEY / DEEPSEEK_API_KEY, matching llm.provider
func applyEnvOverrides(cfg *Config) {
	providerEnv := map[string]string{
		"groq":     "GROQ_API_KEY",
		"openai":   "OPENAI_API_KEY",
		"deepseek": "DEEPSEEK_API_KEY",
	}
	if name, ok := providerEnv[cfg.LLM.Provider]; ok {
		if v := os.Getenv(name); v != "" {
			cfg.LLM.APIKey = v
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
}

func validate(cfg *Config) error {
	switch cfg.LLM.Provider {
	case "groq", "openai", "mock":
	case "deepseek":
		if cfg.LLM.BaseURL == "" {
			return errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	default:
		return fmt.Errorf("invalid llm.provider %q: must be one of groq, openai, deepseek, mock", cfg.LLM.Provider)
	}

	if cfg.Server.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("invalid server.request_timeout_seconds %d: must be >= 1", cfg.Server.RequestTimeoutSeconds)
	}

	// 不强制要求 key：缺失时由接口返回鉴权错误。
	if cfg.LLM.APIKey == "" && cfg.LLM.Provider != "mock" {
		slog.Warn("llm.api_key is empty: set it in the config file or via GROQ_API_KEY / LLM_API_KEY")
	}
	return nil
}
