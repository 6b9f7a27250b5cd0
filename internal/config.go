package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModePasscode = "passcode"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Mongo     MongoConfig       `yaml:"mongo"`
	Blobs     BlobConfig        `yaml:"blobs"`
	Assistant AssistantConfig   `yaml:"assistant"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Mongo.Validate(); err != nil {
		return err
	}
	if err := c.Blobs.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// MongoConfig holds the document database connection. An empty URI selects
// the in-memory store, suitable for local dev and tests.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// InMemory reports whether the in-memory store should be used.
func (c *MongoConfig) InMemory() bool {
	return c.URI == ""
}

// Validate validates the mongo configuration.
func (c *MongoConfig) Validate() error {
	if c.InMemory() {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Database, validation.Required),
	)
}

// BlobConfig holds the object storage connection. An empty endpoint selects
// the in-memory blob provider.
type BlobConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Secure    bool   `yaml:"secure"`
}

// InMemory reports whether the in-memory blob provider should be used.
func (c *BlobConfig) InMemory() bool {
	return c.Endpoint == ""
}

// Validate validates the blob configuration.
func (c *BlobConfig) Validate() error {
	if c.InMemory() {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.AccessKey, validation.Required),
		validation.Field(&c.SecretKey, validation.Required),
		validation.Field(&c.Bucket, validation.Required),
	)
}

// AssistantConfig holds the completion backend settings. An empty API key
// leaves the assistant in degraded mode; all endpoints still work, the
// assistant just reports itself unavailable.
type AssistantConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	VisionModel string `yaml:"vision_model"`

	// DocPreviewLimit and RecentMessageLimit bound the context snapshot
	// inputs. Zero keeps the built-in defaults.
	DocPreviewLimit    int `yaml:"doc_preview_limit"`
	RecentMessageLimit int `yaml:"recent_message_limit"`
}

// AuthConfig holds the passcode gate configuration.
//
// Mode controls how access is enforced:
//   - "disabled" (default): no passcode required, suitable for local dev.
//   - "passcode": the shared passcode must accompany every request.
type AuthConfig struct {
	Mode     string `yaml:"mode"`
	Passcode string `yaml:"passcode"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModePasscode)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModePasscode && c.Passcode == "" {
		return fmt.Errorf("auth: mode is %q but passcode is empty", AuthModePasscode)
	}
	return nil
}

// AuthEnabled returns true when the passcode gate is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModePasscode
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Mongo: MongoConfig{
			Database: "dagaz",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
