package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/cdnkeeper/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "cdnkeeper"

// envConfig mirrors the variables read from the environment. Each name is
// looked up with the CDNKEEPER_ prefix first and then bare, so the AES_KEY,
// API_KEY and API_URL variables of an upload backend deployment work as is.
type envConfig struct {
	SourceKind  string        `envconfig:"SOURCE"`
	BaseURL     string        `envconfig:"API_URL"`
	APIKey      string        `envconfig:"API_KEY"`
	TokenSecret string        `envconfig:"TOKEN_SECRET"`
	AESKey      string        `envconfig:"AES_KEY"`
	Algorithm   string        `envconfig:"ALGORITHM"`
	ChunkSize   int           `envconfig:"CHUNK_SIZE"`
	Workers     int           `envconfig:"WORKERS"`
	DownloadDir string        `envconfig:"DOWNLOAD_DIR"`
	ListenAddr  string        `envconfig:"LISTEN_ADDR"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT"`

	S3Bucket       string `envconfig:"S3_BUCKET"`
	S3Prefix       string `envconfig:"S3_PREFIX"`
	S3Region       string `envconfig:"S3_REGION"`
	S3BaseEndpoint string `envconfig:"S3_ENDPOINT"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY"`

	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
}

// parseEnv overlays Config with environment variables.
//
// A dotenv file is loaded first: the one named by -env, or ./.env when it
// exists. Variables already present in the process environment win over the
// file. Panics on a malformed file or variable.
func parseEnv(cfg *Config) {
	loadDotEnv(flagx.EnvFileFlag(os.Args[1:]))

	var ec envConfig
	if err := envconfig.Process(envPrefix, &ec); err != nil {
		panic(err)
	}

	setIfNotEmpty(&cfg.SourceKind, ec.SourceKind)
	setIfNotEmpty(&cfg.BaseURL, ec.BaseURL)
	setIfNotEmpty(&cfg.APIKey, ec.APIKey)
	setIfNotEmpty(&cfg.TokenSecret, ec.TokenSecret)
	setIfNotEmpty(&cfg.AESKey, ec.AESKey)
	setIfNotEmpty(&cfg.Algorithm, ec.Algorithm)
	setIfPositive(&cfg.ChunkSize, ec.ChunkSize)
	setIfPositive(&cfg.Workers, ec.Workers)
	setIfNotEmpty(&cfg.DownloadDir, ec.DownloadDir)
	setIfNotEmpty(&cfg.ListenAddr, ec.ListenAddr)
	setIfPositive(&cfg.HTTPTimeout, ec.HTTPTimeout)

	setIfNotEmpty(&cfg.S3Bucket, ec.S3Bucket)
	setIfNotEmpty(&cfg.S3Prefix, ec.S3Prefix)
	setIfNotEmpty(&cfg.S3Region, ec.S3Region)
	setIfNotEmpty(&cfg.S3BaseEndpoint, ec.S3BaseEndpoint)
	setIfNotEmpty(&cfg.S3AccessKey, ec.S3AccessKey)
	setIfNotEmpty(&cfg.S3SecretKey, ec.S3SecretKey)

	setIfNotEmpty(&cfg.LogLevel, ec.LogLevel)
	setIfNotEmpty(&cfg.LogFormat, ec.LogFormat)
}

func loadDotEnv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}
