// Package config defines shared configuration types used across the application.
package config

import "fmt"

// ServerConfig holds the operational HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// GetAddress returns the listen address in host:port form.
func (c *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds the sqlite database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// TelegramConfig holds the Telegram Bot API configuration.
type TelegramConfig struct {
	BotToken           string `mapstructure:"bot_token" validate:"required"`
	PollTimeoutSeconds int    `mapstructure:"poll_timeout_seconds" validate:"min=1,max=60"`
	WorkerCount        int    `mapstructure:"worker_count" validate:"min=1"`
}

// PaywallConfig describes the gated channel and its admission price.
type PaywallConfig struct {
	// ChannelID is the chat ID of the restricted channel (-100... for channels).
	ChannelID int64 `mapstructure:"channel_id" validate:"required"`
	// PriceStars is the admission price in Telegram Stars (XTR).
	PriceStars int `mapstructure:"price_stars" validate:"min=1"`

	InvoiceTitle       string `mapstructure:"invoice_title"`
	InvoiceDescription string `mapstructure:"invoice_description"`
	// ChannelLink is included in the welcome message after admission.
	ChannelLink string `mapstructure:"channel_link"`
}
