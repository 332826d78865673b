package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StoreConfig struct {
	Dir string `yaml:"dir" validate:"required|unixPath"`
}

// CloudConfig carries the fallback remote store credentials. They are
// injected through the config file or environment, never a package global;
// a locally stored override (saved through the API) takes precedence.
type CloudConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	BinID    string `yaml:"binId"`
	APIKey   string `yaml:"apiKey"`
}

type HistoryConfig struct {
	Endpoint string `yaml:"endpoint" validate:"required"`
	Limit    int    `yaml:"limit"`
}

type SnapshotConfig struct {
	Dir          string        `yaml:"dir" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server         `yaml:"webServer"`
	Store     StoreConfig    `yaml:"store"`
	Cloud     CloudConfig    `yaml:"cloud"`
	History   HistoryConfig  `yaml:"history"`
	Snapshot  SnapshotConfig `yaml:"snapshot"`
	Logger    LoggerConfig   `yaml:"logger"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}
