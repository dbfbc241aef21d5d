package api

// Config holds the API server configuration.
type Config struct {
	// Port is the port to listen on.
	Port int

	// PandocPath is the pandoc executable to invoke.
	PandocPath string

	// CachePath is the conversion cache database; empty disables
	// caching.
	CachePath string

	// APIKey, when set, is required in the X-API-Key header on every
	// /api request.
	APIKey string
}
