package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Config is the full service configuration loaded from config.toml.
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	NotifyService IntegrationConfig   `toml:"notify_service"`
	DocService    IntegrationConfig   `toml:"doc_service"`
	FileStore     IntegrationConfig   `toml:"file_store"`
	Pricing       PricingConfig       `toml:"pricing"`
	Jobs          JobsConfig          `toml:"jobs"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN builds the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig holds logging settings.
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig holds prometheus settings.
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig holds one downstream HTTP service endpoint.
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

// PricingConfig carries the add-on campaign rates and the default GST percent.
type PricingConfig struct {
	EmailCampaignRate    float64 `toml:"email_campaign_rate"`    // per day
	WhatsAppCampaignRate float64 `toml:"whatsapp_campaign_rate"` // per day
	DefaultGSTPercent    float64 `toml:"default_gst_percent"`
}

// EmailRate returns the per-day email campaign rate as a decimal.
func (p PricingConfig) EmailRate() decimal.Decimal {
	return decimal.NewFromFloat(p.EmailCampaignRate)
}

// WhatsAppRate returns the per-day WhatsApp campaign rate as a decimal.
func (p PricingConfig) WhatsAppRate() decimal.Decimal {
	return decimal.NewFromFloat(p.WhatsAppCampaignRate)
}

// GSTPercent returns the default GST percent as a decimal.
func (p PricingConfig) GSTPercent() decimal.Decimal {
	return decimal.NewFromFloat(p.DefaultGSTPercent)
}

// JobsConfig holds background job schedules (robfig/cron expressions).
type JobsConfig struct {
	ExpireOverdueSchedule string `toml:"expire_overdue_schedule"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Jobs.ExpireOverdueSchedule == "" {
		cfg.Jobs.ExpireOverdueSchedule = "0 1 * * *" // nightly at 01:00
	}
	if cfg.Database.Host == "" {
		return nil, fmt.Errorf("config: database.host is required")
	}

	return &cfg, nil
}
