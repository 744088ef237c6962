package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cdnkeeper/internal/flagx"
)

var knownFlags = []string{
	"-s", "-u", "-k", "-t", "-g", "-n", "-w", "-o", "-l", "-timeout",
	"-b", "-p", "-r", "-e", "-v", "-f",
}

// parseFlags populates Config fields from command-line flags. See the
// package documentation for the list. Flags owned by other loaders (-c,
// -config, -env) are filtered out with flagx.FilterArgs beforehand.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.SourceKind, "s", cfg.SourceKind, "payload source: http or s3")
	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "base URL of the file server")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "API key sent as X-API-Key")
	fs.StringVar(&cfg.TokenSecret, "t", cfg.TokenSecret, "secret for signing bearer tokens")
	fs.StringVar(&cfg.Algorithm, "g", cfg.Algorithm, "cipher: aes-gcm or chacha20-poly1305")
	fs.IntVar(&cfg.ChunkSize, "n", cfg.ChunkSize, "plaintext chunk size in bytes")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "concurrent chunk decryptions")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "directory for saved files")
	fs.StringVar(&cfg.ListenAddr, "l", cfg.ListenAddr, "address of the local artifact server")
	timeout := fs.Int("timeout", int(cfg.HTTPTimeout.Seconds()), "connect and response header timeout (in seconds)")

	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Prefix, "p", cfg.S3Prefix, "S3 key prefix")
	fs.StringVar(&cfg.S3Region, "r", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3-compatible endpoint URL")

	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: text or json")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HTTPTimeout = time.Duration(*timeout) * time.Second
}
