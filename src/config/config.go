package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"covid-dashboard/src/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied to fields the YAML file leaves empty.
const (
	DefaultName              = "covid-dashboard"
	DefaultHost              = "127.0.0.1"
	DefaultPort              = 8000
	DefaultGrpcPort          = 50051
	DefaultHistoricalBaseURL = "https://disease.sh/v3/covid-19"
	DefaultFallbackBaseURL   = "https://api.covid19api.com"
	DefaultLookbackDays      = 1200
	DefaultRequestTimeout    = 15
	DefaultChartWidth        = 900
	DefaultChartHeight       = 500
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig reads the YAML file, loads a .env file next to it when present,
// applies environment overrides and defaults, then validates.
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	// A missing .env is normal outside development.
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load env file '%s': %w", envPath, err)
		}
	}

	config := &Config{MConfig: &modelConfig}
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnv() error {
	if v := os.Getenv("COVID_DASHBOARD_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("COVID_DASHBOARD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COVID_DASHBOARD_PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("COVID_DASHBOARD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("COVID_API_BASE_URL"); v != "" {
		c.API.HistoricalBaseURL = v
		c.API.SnapshotBaseURL = v
	}
	if v := os.Getenv("COVID_FALLBACK_API_BASE_URL"); v != "" {
		c.API.FallbackBaseURL = v
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.GrpcHost == "" {
		c.GrpcHost = c.Host
	}
	if c.GrpcPort == 0 {
		c.GrpcPort = DefaultGrpcPort
	}
	if c.API.HistoricalBaseURL == "" {
		c.API.HistoricalBaseURL = DefaultHistoricalBaseURL
	}
	if c.API.SnapshotBaseURL == "" {
		c.API.SnapshotBaseURL = c.API.HistoricalBaseURL
	}
	if c.API.FallbackBaseURL == "" {
		c.API.FallbackBaseURL = DefaultFallbackBaseURL
	}
	if c.API.LookbackDays == 0 {
		c.API.LookbackDays = DefaultLookbackDays
	}
	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = DefaultRequestTimeout
	}
	if c.Charts.Width == 0 {
		c.Charts.Width = DefaultChartWidth
	}
	if c.Charts.Height == 0 {
		c.Charts.Height = DefaultChartHeight
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort <= 1024 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid gRPC port number: %d (must be between 1025 and 65535)", c.GrpcPort)
	}
	if c.GrpcPort == c.Port && c.GrpcHost == c.Host {
		return fmt.Errorf("gRPC and HTTP cannot share %s:%d", c.Host, c.Port)
	}

	for name, raw := range map[string]string{
		"historical_base_url": c.API.HistoricalBaseURL,
		"snapshot_base_url":   c.API.SnapshotBaseURL,
		"fallback_base_url":   c.API.FallbackBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api %s must be an absolute http(s) URL, got %q", name, raw)
		}
	}
	if c.API.LookbackDays <= 0 {
		return fmt.Errorf("lookback days must be greater than 0")
	}

	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	for i, p := range c.Network.Proxies {
		if _, err := url.Parse(p); err != nil || p == "" {
			return fmt.Errorf("proxy %d is not a valid URL: %q", i, p)
		}
	}

	if c.Charts.Width <= 0 || c.Charts.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.Charts.Width, c.Charts.Height)
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
