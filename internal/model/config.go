package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// IMAPConfig holds the mailbox server settings.
type IMAPConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`

	// Password is the application password. Prefer the keyring; this
	// field exists for setups without a system keyring.
	Password string `mapstructure:"password" yaml:"password"`

	// InboxFolder and SpamFolder name the two watched folders.
	InboxFolder string `mapstructure:"inbox_folder" yaml:"inbox_folder"`
	SpamFolder  string `mapstructure:"spam_folder" yaml:"spam_folder"`
}

// IngestConfig controls the periodic ingestion workers.
type IngestConfig struct {
	// PollIntervalSec is the inbox worker's cycle interval.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// SpamPollIntervalSec is the spam worker's cycle interval.
	SpamPollIntervalSec int `mapstructure:"spam_poll_interval_sec" yaml:"spam_poll_interval_sec"`

	// LookbackMinutes is the recency window used by periodic searches.
	LookbackMinutes int `mapstructure:"lookback_minutes" yaml:"lookback_minutes"`

	// BackfillSince is the absolute "since" date (YYYY-MM-DD) used by
	// the one-time historical backfill cycle.
	BackfillSince string `mapstructure:"backfill_since" yaml:"backfill_since"`
}

// SummaryConfig holds settings for the external text-completion service.
type SummaryConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls daemon logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// Config is the top-level daemon configuration.
type Config struct {
	IMAP    IMAPConfig    `mapstructure:"imap" yaml:"imap"`
	Ingest  IngestConfig  `mapstructure:"ingest" yaml:"ingest"`
	Summary SummaryConfig `mapstructure:"summary" yaml:"summary"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailsift/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mailsift", "config.yaml")
}

func defaultConfig() *Config {
	return &Config{
		IMAP: IMAPConfig{
			Host:        "imap.gmail.com",
			Port:        "993",
			InboxFolder: "INBOX",
			SpamFolder:  "[Gmail]/Spam",
		},
		Ingest: IngestConfig{
			PollIntervalSec:     120,
			SpamPollIntervalSec: 300,
			LookbackMinutes:     5,
		},
		Summary: SummaryConfig{
			BaseURL:   "https://openrouter.ai/api/v1",
			Model:     "google/gemini-flash-1.5-8b",
			MaxTokens: 100,
		},
		Store: StoreConfig{Path: "mailsift.db"},
		Log:   LogConfig{Level: "info"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Environment variables prefixed MAILSIFT_ override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("imap.host", "imap.gmail.com")
	v.SetDefault("imap.port", "993")
	v.SetDefault("imap.inbox_folder", "INBOX")
	v.SetDefault("imap.spam_folder", "[Gmail]/Spam")
	v.SetDefault("ingest.poll_interval_sec", 120)
	v.SetDefault("ingest.spam_poll_interval_sec", 300)
	v.SetDefault("ingest.lookback_minutes", 5)
	v.SetDefault("summary.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("summary.model", "google/gemini-flash-1.5-8b")
	v.SetDefault("summary.max_tokens", 100)
	v.SetDefault("store.path", "mailsift.db")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("MAILSIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
