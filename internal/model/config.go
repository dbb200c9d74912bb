package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// FastmailConfig holds JMAP connection settings.
type FastmailConfig struct {
	// Host is the JMAP server hostname.
	Host string `mapstructure:"host" yaml:"host"`

	// AccountID is learned from the session and cached here.
	AccountID string `mapstructure:"account_id" yaml:"account_id"`
}

// ClaudeConfig holds settings for the AI assistant integration.
type ClaudeConfig struct {
	Enabled          bool   `mapstructure:"enabled" yaml:"enabled"`
	Model            string `mapstructure:"model" yaml:"model"`
	SummarizeThreads bool   `mapstructure:"summarize_threads" yaml:"summarize_threads"`
	SuggestReplies   bool   `mapstructure:"suggest_replies" yaml:"suggest_replies"`
	CategorizeEmails bool   `mapstructure:"categorize_emails" yaml:"categorize_emails"`
	MaxSummaryTokens int    `mapstructure:"max_summary_tokens" yaml:"max_summary_tokens"`
}

// CacheConfig holds settings for the local message cache.
type CacheConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	MaxMessages int    `mapstructure:"max_messages" yaml:"max_messages"`
	Path        string `mapstructure:"path" yaml:"path"`
}

// UIConfig holds rendering and interaction preferences.
type UIConfig struct {
	VimMode            bool `mapstructure:"vim_mode" yaml:"vim_mode"`
	PreviewLines       int  `mapstructure:"preview_lines" yaml:"preview_lines"`
	ShowAIPanel        bool `mapstructure:"show_ai_panel" yaml:"show_ai_panel"`
	NotificationSound  bool `mapstructure:"notification_sound" yaml:"notification_sound"`
	RefreshIntervalSec int  `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	PageSize           int  `mapstructure:"page_size" yaml:"page_size"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Fastmail FastmailConfig `mapstructure:"fastmail" yaml:"fastmail"`
	Claude   ClaudeConfig   `mapstructure:"claude" yaml:"claude"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/fastmail-tui/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "fastmail-tui", "config.yaml")
}

// defaultCachePath returns ~/.cache/fastmail-tui.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "cache")
	}
	return filepath.Join(home, ".cache", "fastmail-tui")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Fastmail: FastmailConfig{
			Host: "api.fastmail.com",
		},
		Claude: ClaudeConfig{
			Enabled:          true,
			Model:            "claude-sonnet-4-5",
			SummarizeThreads: true,
			SuggestReplies:   true,
			CategorizeEmails: true,
			MaxSummaryTokens: 500,
		},
		Cache: CacheConfig{
			Enabled:     true,
			MaxMessages: 500,
			Path:        defaultCachePath(),
		},
		UI: UIConfig{
			VimMode:            true,
			PreviewLines:       10,
			ShowAIPanel:        true,
			RefreshIntervalSec: 30,
			PageSize:           50,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns the default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("fastmail.host", "api.fastmail.com")
	v.SetDefault("claude.enabled", true)
	v.SetDefault("claude.model", "claude-sonnet-4-5")
	v.SetDefault("claude.summarize_threads", true)
	v.SetDefault("claude.suggest_replies", true)
	v.SetDefault("claude.categorize_emails", true)
	v.SetDefault("claude.max_summary_tokens", 500)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_messages", 500)
	v.SetDefault("cache.path", defaultCachePath())
	v.SetDefault("ui.vim_mode", true)
	v.SetDefault("ui.preview_lines", 10)
	v.SetDefault("ui.show_ai_panel", true)
	v.SetDefault("ui.notification_sound", false)
	v.SetDefault("ui.refresh_interval", 30)
	v.SetDefault("ui.page_size", 50)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return DefaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("fastmail", cfg.Fastmail)
	v.Set("claude", cfg.Claude)
	v.Set("cache", cfg.Cache)
	v.Set("ui", cfg.UI)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
