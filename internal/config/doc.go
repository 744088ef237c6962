// Package config loads runtime configuration for the cdnkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, optionally seeded from a dotenv file (-env path, or ./.env).
//     Variables use the CDNKEEPER_ prefix; the bare names are a fallback, so
//     AES_KEY, API_KEY and API_URL from an upload backend deployment apply.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string    payload source: http or s3
//	-u string    base URL of the file server
//	-k string    API key
//	-t string    bearer token signing secret (replaces the API key header)
//	-g string    cipher: aes-gcm or chacha20-poly1305
//	-n int       plaintext chunk size in bytes
//	-w int       concurrent chunk decryptions
//	-o string    download directory
//	-l string    listen address of the local artifact server
//	-timeout int connect and response header timeout (seconds)
//	-b, -p, -r, -e string    S3 bucket, prefix, region and endpoint
//	-v string    log level
//	-f string    log format: text or json
//
// The content key has no flag. Set CDNKEEPER_AES_KEY (or AES_KEY), put it in
// the JSON file, or enter it at the prompt.
//
// # JSON schema
//
//	{
//	  "source": "http",
//	  "base_url": "http://localhost:8080",
//	  "api_key": "...",
//	  "workers": 4,
//	  "http_timeout": "60s",
//	  "s3": {"bucket": "media", "region": "eu-central-1"}
//	}
package config
