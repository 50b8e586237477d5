package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/markremodeling/renovation/pkg/assistant"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Images  ImagesConfig  `json:"images" yaml:"images"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Contact ContactConfig `json:"contact" yaml:"contact"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Addr                   string `json:"addr" yaml:"addr"`
	ReadTimeoutSeconds     int    `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `json:"write_timeout_seconds" yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`
	// AdminToken, when set, is required as a bearer token on image admin routes
	AdminToken string `json:"admin_token" yaml:"admin_token"`
}

// AIConfig selects the model backend
type AIConfig struct {
	Backend        string           `json:"backend" yaml:"backend"`
	BaseURL        string           `json:"base_url" yaml:"base_url"`
	APIKey         string           `json:"api_key" yaml:"api_key"`
	GeminiAPIKey   string           `json:"gemini_api_key" yaml:"gemini_api_key"`
	TimeoutSeconds int              `json:"timeout_seconds" yaml:"timeout_seconds"`
	Models         assistant.Models `json:"models" yaml:"models"`
}

// ImagesConfig holds configuration for uploaded photos
type ImagesConfig struct {
	MaxUploadMB      int      `json:"max_upload_mb" yaml:"max_upload_mb"`
	SupportedFormats []string `json:"supported_formats" yaml:"supported_formats"`
	MinImageSize     int      `json:"min_image_size" yaml:"min_image_size"`
	ThumbnailSize    int      `json:"thumbnail_size" yaml:"thumbnail_size"`
}

// StorageConfig holds the database and blob locations
type StorageConfig struct {
	DBPath  string `json:"db_path" yaml:"db_path"`
	BlobDir string `json:"blob_dir" yaml:"blob_dir"`
	// PublicPrefix is the URL path under which blobs are served
	PublicPrefix string `json:"public_prefix" yaml:"public_prefix"`
}

// ContactConfig holds the contact form rate limit
type ContactConfig struct {
	RateLimitWindowSeconds int `json:"rate_limit_window_seconds" yaml:"rate_limit_window_seconds"`
	RateLimitMax           int `json:"rate_limit_max" yaml:"rate_limit_max"`
}

// LoggingConfig holds configuration for zap
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// Backends supported by the AI section
const (
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
	BackendGemini = "gemini"
)

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                   ":8080",
			ReadTimeoutSeconds:     30,
			WriteTimeoutSeconds:    300,
			ShutdownTimeoutSeconds: 10,
		},
		AI: AIConfig{
			Backend:        BackendOpenAI,
			TimeoutSeconds: 300,
			Models:         assistant.DefaultModels(),
		},
		Images: ImagesConfig{
			MaxUploadMB:      10,
			SupportedFormats: []string{"jpeg", "png", "webp", "gif"},
			MinImageSize:     16,
			ThumbnailSize:    256,
		},
		Storage: StorageConfig{
			DBPath:       "./data/renovation.db",
			BlobDir:      "./data/blobs",
			PublicPrefix: "/blobs/",
		},
		Contact: ContactConfig{
			RateLimitWindowSeconds: 60,
			RateLimitMax:           10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the file if given, applies environment overrides and validates.
// A missing file at the default path is not an error.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		loaded, err := LoadFromFile(filename)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist) && filename == GetConfigPath():
		default:
			return nil, err
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a JSON or YAML file on top of the
// defaults. The format follows the file extension.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON or YAML file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides secrets and locations from the environment
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.AI.GeminiAPIKey = v
	}
	if v := getenv("RENOVATION_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("RENOVATION_DB"); v != "" {
		c.Storage.DBPath = v
	}
	if v := getenv("RENOVATION_ADMIN_TOKEN"); v != "" {
		c.Server.AdminToken = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}

	switch c.AI.Backend {
	case BackendOpenAI, BackendOllama, BackendGemini:
	default:
		return fmt.Errorf("ai.backend must be one of openai, ollama, gemini (got %q)", c.AI.Backend)
	}
	if c.AI.Backend == BackendOllama && c.AI.BaseURL == "" {
		return fmt.Errorf("ai.base_url is required for the ollama backend")
	}

	if c.Images.MaxUploadMB < 1 {
		return fmt.Errorf("images.max_upload_mb must be positive")
	}

	if c.Images.MinImageSize < 1 {
		return fmt.Errorf("images.min_image_size must be positive")
	}

	if len(c.Images.SupportedFormats) == 0 {
		return fmt.Errorf("images.supported_formats cannot be empty")
	}

	if c.Storage.DBPath == "" || c.Storage.BlobDir == "" {
		return fmt.Errorf("storage.db_path and storage.blob_dir are required")
	}
	if !strings.HasPrefix(c.Storage.PublicPrefix, "/") || !strings.HasSuffix(c.Storage.PublicPrefix, "/") {
		return fmt.Errorf("storage.public_prefix must start and end with /")
	}

	if c.Contact.RateLimitWindowSeconds < 1 || c.Contact.RateLimitMax < 1 {
		return fmt.Errorf("contact rate limit window and max must be positive")
	}

	return nil
}

// Timeout returns the model call timeout
func (a AIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RateLimitWindow returns the contact rate limit window
func (c ContactConfig) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

// MaxUploadBytes returns the upload limit in bytes
func (i ImagesConfig) MaxUploadBytes() int64 {
	return int64(i.MaxUploadMB) << 20
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "renovation", "config.json")
}
