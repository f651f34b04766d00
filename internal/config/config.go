package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. SMSCLASSIFIER_LOG_LEVEL.
const EnvPrefix = "SMSCLASSIFIER_"

// ArtifactsConfig locates the vectorizer and classifier files.
type ArtifactsConfig struct {
	Vectorizer string `yaml:"vectorizer"`
	Classifier string `yaml:"classifier"`
}

// HistoryConfig bounds the recent predictions panel.
type HistoryConfig struct {
	Size int `yaml:"size"`
}

// UIConfig holds terminal UI content.
type UIConfig struct {
	Examples []string `yaml:"examples"`
}

// LogConfig selects log level, encoding and, for the TUI, the log file.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr             string `yaml:"addr"`
	Mode             string `yaml:"mode"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	History   HistoryConfig   `yaml:"history"`
	UI        UIConfig        `yaml:"ui"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate rejects values the HTTP server cannot start with.
func (c *AppConfig) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q: want debug, release or test", c.Server.Mode)
	}
	return nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/smsclassifier/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "smsclassifier", "config.yaml"), nil
}

// DefaultExamples are the sample messages offered by the TUI.
func DefaultExamples() []string {
	return []string{
		"WINNER!! As a valued network customer you have been selected to receive a £900 prize reward! Call now to claim.",
		"Free entry in 2 a wkly comp to win FA Cup final tkts. Text FA to 87121 to receive entry.",
		"URGENT! Your mobile number has won a cash prize. Reply YES to claim your reward.",
		"Hey, are we still meeting for lunch?",
		"I'll call you when I get home, running a bit late.",
		"Ok lar... Joking wif u oni...",
	}
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Artifacts: ArtifactsConfig{Vectorizer: "tfidf_vectorizer.json", Classifier: "spam_model.json"},
		History:   HistoryConfig{Size: 10},
		UI:        UIConfig{Examples: DefaultExamples()},
		Log:       LogConfig{Level: "info", Format: "json", File: "smsclassifier.log"},
		Server:    ServerConfig{Addr: ":8080", Mode: "release", ReadTimeoutSecs: 15, WriteTimeoutSecs: 15},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Artifacts.Vectorizer == "" {
		cfg.Artifacts.Vectorizer = def.Artifacts.Vectorizer
	}
	if cfg.Artifacts.Classifier == "" {
		cfg.Artifacts.Classifier = def.Artifacts.Classifier
	}
	if cfg.History.Size <= 0 {
		cfg.History.Size = def.History.Size
	}
	if cfg.UI.Examples == nil {
		cfg.UI.Examples = def.UI.Examples
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	if cfg.Log.File == "" {
		cfg.Log.File = def.Log.File
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = def.Server.Mode
	}
	if cfg.Server.ReadTimeoutSecs == 0 {
		cfg.Server.ReadTimeoutSecs = def.Server.ReadTimeoutSecs
	}
	if cfg.Server.WriteTimeoutSecs == 0 {
		cfg.Server.WriteTimeoutSecs = def.Server.WriteTimeoutSecs
	}
}

func applyEnv(cfg *AppConfig) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"VECTORIZER_PATH", &cfg.Artifacts.Vectorizer},
		{"MODEL_PATH", &cfg.Artifacts.Classifier},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
		{"LOG_FILE", &cfg.Log.File},
		{"SERVER_ADDR", &cfg.Server.Addr},
	}
	for _, o := range overrides {
		if v := os.Getenv(EnvPrefix + o.key); v != "" {
			*o.dst = v
		}
	}
}
