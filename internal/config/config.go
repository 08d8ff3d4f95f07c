package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Service  ServiceConfig  `yaml:"service" validate:"required"`
	Database DatabaseConfig `yaml:"database" validate:"required"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Stripe   StripeConfig   `yaml:"stripe" validate:"required"`
	Notifier NotifierConfig `yaml:"notifier"`
	JWT      JWTConfig      `yaml:"jwt"`
}

func LoadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/server.yaml"
	}

	// Ensure absolute path
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Read config file
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides lets secrets come from the environment instead of the
// config file, so deployments never have to write them to disk.
func (c *Config) applyEnvOverrides() {
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Stripe.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
	overrideString(&c.Stripe.ConnectWebhookSecret, "STRIPE_CONNECT_WEBHOOK_SECRET")
	overrideString(&c.JWT.Secret, "JWT_SECRET")
	overrideString(&c.Notifier.SlackWebhookURL, "SLACK_WEBHOOK_URL")
	overrideString(&c.Notifier.SMTP.Username, "SMTP_USERNAME")
	overrideString(&c.Notifier.SMTP.Password, "SMTP_PASSWORD")
	overrideString(&c.Notifier.Redis.Addr, "REDIS_ADDR")
	overrideString(&c.Notifier.Redis.Password, "REDIS_PASSWORD")
}

func overrideString(target *string, envKey string) {
	if v := os.Getenv(envKey); v != "" {
		*target = v
	}
}
