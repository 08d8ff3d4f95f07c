package config

// ServiceConfig identifies the deployment.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment" validate:"required,oneof=development staging production"`
	Version     string `yaml:"version"`
	ClientURL   string `yaml:"client_url"`
}

// StripeConfig carries the webhook verification secrets. Two secrets exist
// because the platform endpoint and the Connect endpoint are distinct
// webhook endpoints on the Stripe side, each with its own signing secret.
type StripeConfig struct {
	WebhookSecret        string `yaml:"webhook_secret" validate:"required"`
	ConnectWebhookSecret string `yaml:"connect_webhook_secret" validate:"required"`
	DashboardBaseURL     string `yaml:"dashboard_base_url"`
}

// NotifierConfig configures the best-effort notification sinks. Any sink
// left unconfigured is disabled.
type NotifierConfig struct {
	SlackWebhookURL string      `yaml:"slack_webhook_url"`
	SlackUsername   string      `yaml:"slack_username"`
	SMTP            SMTPConfig  `yaml:"smtp"`
	Redis           RedisConfig `yaml:"redis"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Sender   string `yaml:"sender"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}
