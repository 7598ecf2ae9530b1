package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// MaxUploadMB limits request bodies accepted by the server.
	MaxUploadMB int `mapstructure:"max_upload_mb" default:"32"`
}

const defaultMaxUploadMB = 32

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	return mb * 1024 * 1024
}
