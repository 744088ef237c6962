package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cdnkeeper/internal/flagx"
	"github.com/dmitrijs2005/cdnkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration, so "30s" and integer nanoseconds are both accepted.
// Absent fields leave the current value alone.
type JsonConfig struct {
	SourceKind  string         `json:"source"`
	BaseURL     string         `json:"base_url"`
	APIKey      string         `json:"api_key"`
	TokenSecret string         `json:"token_secret"`
	AESKey      string         `json:"aes_key"`
	Algorithm   string         `json:"algorithm"`
	ChunkSize   int            `json:"chunk_size"`
	Workers     int            `json:"workers"`
	DownloadDir string         `json:"download_dir"`
	ListenAddr  string         `json:"listen_addr"`
	HTTPTimeout timex.Duration `json:"http_timeout"`

	S3 struct {
		Bucket       string `json:"bucket"`
		Prefix       string `json:"prefix"`
		Region       string `json:"region"`
		BaseEndpoint string `json:"endpoint"`
		AccessKey    string `json:"access_key"`
		SecretKey    string `json:"secret_key"`
	} `json:"s3"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing happens. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIfNotEmpty(&cfg.SourceKind, jc.SourceKind)
	setIfNotEmpty(&cfg.BaseURL, jc.BaseURL)
	setIfNotEmpty(&cfg.APIKey, jc.APIKey)
	setIfNotEmpty(&cfg.TokenSecret, jc.TokenSecret)
	setIfNotEmpty(&cfg.AESKey, jc.AESKey)
	setIfNotEmpty(&cfg.Algorithm, jc.Algorithm)
	setIfPositive(&cfg.ChunkSize, jc.ChunkSize)
	setIfPositive(&cfg.Workers, jc.Workers)
	setIfNotEmpty(&cfg.DownloadDir, jc.DownloadDir)
	setIfNotEmpty(&cfg.ListenAddr, jc.ListenAddr)
	setIfPositive(&cfg.HTTPTimeout, jc.HTTPTimeout.Duration)

	setIfNotEmpty(&cfg.S3Bucket, jc.S3.Bucket)
	setIfNotEmpty(&cfg.S3Prefix, jc.S3.Prefix)
	setIfNotEmpty(&cfg.S3Region, jc.S3.Region)
	setIfNotEmpty(&cfg.S3BaseEndpoint, jc.S3.BaseEndpoint)
	setIfNotEmpty(&cfg.S3AccessKey, jc.S3.AccessKey)
	setIfNotEmpty(&cfg.S3SecretKey, jc.S3.SecretKey)

	setIfNotEmpty(&cfg.LogLevel, jc.LogLevel)
	setIfNotEmpty(&cfg.LogFormat, jc.LogFormat)
}
