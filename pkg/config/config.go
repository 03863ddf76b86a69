// Package config loads TeleClaw configuration from the environment, with an
// optional YAML file overlay for the settings that are awkward as env vars.
//
// Environment always wins for secrets (tokens, API keys); the YAML file is
// for structural settings (gateway address, heartbeat schedule, model names).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	// Telegram
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN" yaml:"-"`

	// Workspace command surface
	AuthorizedUser string `env:"AUTHORIZED_USER" yaml:"authorized_user"`
	Workspace      string `env:"WORKSPACE_PATH" yaml:"workspace"`

	// LLM reply capability
	Provider ProviderConfig `yaml:"provider"`

	// Health/status HTTP server
	Gateway GatewayConfig `yaml:"gateway"`

	// Optional scheduled heartbeat
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`

	// Transcript store
	HistoryDB string `env:"TELECLAW_HISTORY_DB" envDefault:"" yaml:"history_db"`
}

// ProviderConfig selects and configures the LLM reply provider.
type ProviderConfig struct {
	// Name is "openai", "openrouter", or "anthropic".
	Name      string `env:"TELECLAW_PROVIDER" yaml:"name"`
	APIKey    string `env:"TELECLAW_PROVIDER_API_KEY" yaml:"-"`
	Model     string `env:"TELECLAW_PROVIDER_MODEL" yaml:"model"`
	APIBase   string `env:"TELECLAW_PROVIDER_API_BASE" yaml:"api_base"`
	MaxTurns  int    `env:"TELECLAW_PROVIDER_MAX_TURNS" yaml:"max_turns"`
	SystemTag string `yaml:"system_prompt"`
}

// GatewayConfig configures the health/status HTTP server.
type GatewayConfig struct {
	Host   string `env:"TELECLAW_GATEWAY_HOST" yaml:"host"`
	Port   int    `env:"TELECLAW_GATEWAY_PORT" yaml:"port"`
	APIKey string `env:"TELECLAW_API_KEY" yaml:"-"`
}

// HeartbeatConfig configures the optional cron-driven heartbeat prompt.
type HeartbeatConfig struct {
	Enabled bool   `env:"TELECLAW_HEARTBEAT_ENABLED" yaml:"enabled"`
	Cron    string `env:"TELECLAW_HEARTBEAT_CRON" yaml:"cron"`
	ChatID  int64  `env:"TELECLAW_HEARTBEAT_CHAT_ID" yaml:"chat_id"`
	Prompt  string `yaml:"prompt"`
}

// Load builds a Config from an optional YAML file at path (may be "") and
// the process environment. Environment values override file values.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.applyDefaults()
	return cfg, cfg.validate()
}

// applyDefaults fills in what neither the file nor the environment set.
func (c *Config) applyDefaults() {
	if c.Workspace == "" {
		c.Workspace = "./workspace"
	}
	if c.Provider.Name == "" {
		c.Provider.Name = "openai"
	}
	if c.Provider.MaxTurns <= 0 {
		c.Provider.MaxTurns = 20
	}
	if c.Gateway.Host == "" {
		c.Gateway.Host = "127.0.0.1"
	}
	if c.Gateway.Port == 0 {
		c.Gateway.Port = 8090
	}
	if c.Heartbeat.Cron == "" {
		c.Heartbeat.Cron = "0 * * * *"
	}
}

// validate only rejects config the process cannot run with. An empty
// AUTHORIZED_USER is allowed and simply authorizes nobody; the missing bot
// token is checked at wiring time since local mode runs without one.
func (c *Config) validate() error {
	if c.Heartbeat.Enabled && strings.TrimSpace(c.Heartbeat.Cron) == "" {
		return fmt.Errorf("heartbeat enabled but cron expression is empty")
	}
	return nil
}

// WorkspacePath returns the absolute workspace root, creating it if needed.
func (c *Config) WorkspacePath() (string, error) {
	abs, err := filepath.Abs(c.Workspace)
	if err != nil {
		return "", fmt.Errorf("resolve workspace path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	return abs, nil
}

// HistoryDBPath returns the transcript database path, defaulting to a file
// inside the workspace root.
func (c *Config) HistoryDBPath(workspace string) string {
	if c.HistoryDB != "" {
		return c.HistoryDB
	}
	return filepath.Join(workspace, ".teleclaw", "history.db")
}

// GatewayAddr returns the host:port the API server listens on.
func (c *Config) GatewayAddr() string {
	return fmt.Sprintf("%s:%d", c.Gateway.Host, c.Gateway.Port)
}
