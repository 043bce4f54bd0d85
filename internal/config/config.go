package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Download  DownloadConfig  `yaml:"download"`
	Platform  PlatformConfig  `yaml:"platform"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string        `yaml:"host" envconfig:"SERVER_HOST"`
	Port           int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"SERVER_REQUEST_TIMEOUT"`
}

// StorageConfig holds transient storage configuration.
type StorageConfig struct {
	// TempPath is the root under which each download gets its own directory.
	TempPath string `yaml:"temp_path" envconfig:"STORAGE_TEMP_PATH"`
}

// ExtractorConfig holds yt-dlp configuration.
type ExtractorConfig struct {
	BinaryPath string   `yaml:"binary_path" envconfig:"YTDLP_PATH"`
	ExtraArgs  []string `yaml:"extra_args" envconfig:"YTDLP_EXTRA_ARGS"`
}

// DownloadConfig holds configuration for plain HTTP fetches (thumbnails).
type DownloadConfig struct {
	Timeout       time.Duration `yaml:"timeout" envconfig:"DOWNLOAD_TIMEOUT"`
	RetryDelay    time.Duration `yaml:"retry_delay" envconfig:"DOWNLOAD_RETRY_DELAY"`
	MaxRetryDelay time.Duration `yaml:"max_retry_delay" envconfig:"DOWNLOAD_MAX_RETRY_DELAY"`
	MaxAttempts   int           `yaml:"max_attempts" envconfig:"DOWNLOAD_MAX_ATTEMPTS"`
	MaxBytes      int64         `yaml:"max_bytes" envconfig:"DOWNLOAD_MAX_BYTES"`
	UserAgent     string        `yaml:"user_agent" envconfig:"DOWNLOAD_USER_AGENT"`
}

// PlatformConfig lists the hosts accepted by the URL pre-filter.
type PlatformConfig struct {
	// Domains match exactly or as a parent domain (www.youtube.com matches youtube.com).
	Domains []string `yaml:"domains" envconfig:"PLATFORM_DOMAINS"`
	// ShortHosts match exactly.
	ShortHosts []string `yaml:"short_hosts" envconfig:"PLATFORM_SHORT_HOSTS"`
	// ThumbnailDomains are the image hosts the thumbnail proxy may fetch from.
	ThumbnailDomains []string `yaml:"thumbnail_domains" envconfig:"PLATFORM_THUMBNAIL_DOMAINS"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"` // auto, json, text
}

// Defaults returns the configuration used when neither the file nor the
// environment sets a value.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           9848,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   10 * time.Minute,
			RequestTimeout: 5 * time.Minute,
		},
		Extractor: ExtractorConfig{
			BinaryPath: "yt-dlp",
		},
		Download: DownloadConfig{
			Timeout:       30 * time.Second,
			RetryDelay:    time.Second,
			MaxRetryDelay: 10 * time.Second,
			MaxAttempts:   3,
			MaxBytes:      10 << 20,
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		Platform: PlatformConfig{
			Domains:          []string{"youtube.com"},
			ShortHosts:       []string{"youtu.be"},
			ThumbnailDomains: []string{"ytimg.com", "ggpht.com", "googleusercontent.com"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load reads configuration from defaults, then the file, then environment
// variables. Each layer only overrides the values it sets.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.Storage.TempPath == "" {
		cfg.Storage.TempPath = os.TempDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Storage.TempPath == "" {
		return fmt.Errorf("STORAGE_TEMP_PATH is required")
	}
	if c.Extractor.BinaryPath == "" {
		return fmt.Errorf("YTDLP_PATH is required")
	}
	if len(c.Platform.Domains) == 0 && len(c.Platform.ShortHosts) == 0 {
		return fmt.Errorf("at least one of PLATFORM_DOMAINS or PLATFORM_SHORT_HOSTS is required")
	}
	if len(c.Platform.ThumbnailDomains) == 0 {
		return fmt.Errorf("PLATFORM_THUMBNAIL_DOMAINS is required")
	}
	if c.Download.MaxAttempts < 1 {
		return fmt.Errorf("DOWNLOAD_MAX_ATTEMPTS must be at least 1")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be auto, json or text, got %q", c.Log.Format)
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
