package models

// MConfig Structure
type MConfig struct {
	Name     string         `yaml:"name"`
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	GrpcHost string         `yaml:"grpc_host"`
	GrpcPort int            `yaml:"grpc_port"`
	API      MApiConfig     `yaml:"api"`
	Network  MNetworkConfig `yaml:"network"`
	Charts   MChartsConfig  `yaml:"charts"`
}

// MApiConfig holds the remote statistics endpoints.
type MApiConfig struct {
	HistoricalBaseURL string `yaml:"historical_base_url"`
	SnapshotBaseURL   string `yaml:"snapshot_base_url"`
	FallbackBaseURL   string `yaml:"fallback_base_url"`
	LookbackDays      int    `yaml:"lookback_days"`
}

type MNetworkConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Proxies        []string `yaml:"proxies"`
	RequestTimeout int      `yaml:"timeout"`
	UserAgent      string   `yaml:"user_agent"`
}

// MChartsConfig sizes the PNG rendition of every chart.
type MChartsConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}
