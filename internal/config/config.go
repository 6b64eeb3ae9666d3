package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	BackendURL        string        `mapstructure:"backend_url" yaml:"backend_url"`
	BackendTimeout    time.Duration `mapstructure:"backend_timeout" yaml:"backend_timeout"`
	TranscriptDir     string        `mapstructure:"transcript_dir" yaml:"transcript_dir"`
	WorkerCount       int           `mapstructure:"worker_count" yaml:"worker_count"`
	QueueSize         int           `mapstructure:"queue_size" yaml:"queue_size"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		AllowedOrigins:    []string{"http://localhost:3000"},
		BackendTimeout:    5 * time.Second,
		WorkerCount:       4,
		QueueSize:         64,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if len(other.AllowedOrigins) != 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.BackendURL != "" {
		c.BackendURL = other.BackendURL
	}
	if other.BackendTimeout != 0 {
		c.BackendTimeout = other.BackendTimeout
	}
	if other.TranscriptDir != "" {
		c.TranscriptDir = other.TranscriptDir
	}
	if other.WorkerCount != 0 {
		c.WorkerCount = other.WorkerCount
	}
	if other.QueueSize != 0 {
		c.QueueSize = other.QueueSize
	}
}
