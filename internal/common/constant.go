package common

// APIKeyHeaderName is the HTTP header carrying the static API key expected
// by the file server.
const APIKeyHeaderName = "X-API-Key"

// Size units.
const (
	KiB = 1024
	MiB = 1024 * KiB
)
