package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/cdnkeeper/internal/wire"
	"github.com/go-playground/validator/v10"
)

// Source kinds.
const (
	SourceHTTP = "http"
	SourceS3   = "s3"
)

var validate = validator.New()

// Config holds runtime settings for the cdnkeeper CLI.
//
// AESKey is the base64 content key. It is deliberately not settable from
// the command line; when empty the CLI asks for it interactively.
type Config struct {
	SourceKind  string `validate:"oneof=http s3"`
	BaseURL     string `validate:"required_if=SourceKind http"`
	APIKey      string
	TokenSecret string
	AESKey      string

	Algorithm string `validate:"oneof=aes-gcm chacha20-poly1305"`
	ChunkSize int    `validate:"gt=0"`
	Workers   int    `validate:"gte=1,lte=64"`

	DownloadDir string `validate:"required"`
	ListenAddr  string `validate:"required,hostname_port"`
	HTTPTimeout time.Duration

	S3Bucket       string `validate:"required_if=SourceKind s3"`
	S3Prefix       string
	S3Region       string `validate:"required_if=SourceKind s3"`
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.SourceKind = SourceHTTP
	c.BaseURL = "http://localhost:8080"
	c.Algorithm = "aes-gcm"
	c.ChunkSize = wire.DefaultChunkSize
	c.Workers = 4
	c.DownloadDir = "downloads"
	c.ListenAddr = "127.0.0.1:17234"
	c.HTTPTimeout = 60 * time.Second
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and an optional .env file), JSON (if present) and
// command-line flags (if present). Later sources take precedence over
// earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports the first problem with c, if any.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
			return fmt.Errorf("invalid config: base url: %w", err)
		}
	}
	if err := c.Layout().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Layout returns the wire layout implied by the chunk size setting.
func (c *Config) Layout() wire.Layout {
	l := wire.DefaultLayout()
	l.ChunkSize = c.ChunkSize
	return l
}

// setIfNotEmpty and friends copy a value only when the source actually set it.
func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setIfPositive[T int | time.Duration](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}
