package config

import (
	"fmt"
	"time"
)

// ServerAuth holds token issuance settings for the server.
type ServerAuth struct {
	// TokenSignKey is the secret key used to sign and verify tokens.
	TokenSignKey string
	// TokenIssuer is the "iss" claim embedded in issued tokens.
	TokenIssuer string
	// TokenDuration is the validity window of issued tokens.
	TokenDuration time.Duration
}

// ServerFiles holds the file store layout settings.
type ServerFiles struct {
	// DataDir holds the notes metadata file, per-note content files, and
	// the categories file.
	DataDir string
	// UploadDir is where attachment uploads land.
	UploadDir string
}

// ServerHTTP holds inbound network settings.
type ServerHTTP struct {
	// Address is the TCP listen address, "host:port".
	Address string
	// RequestTimeout bounds a single inbound request.
	RequestTimeout time.Duration
}

// ServerConfig is the top-level server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	// Auth contains token issuance settings.
	Auth ServerAuth
	// Files contains file store settings.
	Files ServerFiles
	// HTTP contains inbound network settings.
	HTTP ServerHTTP
}

// GetServerConfig builds and validates a server-specific config view from the
// merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		Auth: ServerAuth{
			TokenSignKey:  cfg.Auth.TokenSignKey,
			TokenIssuer:   cfg.Auth.TokenIssuer,
			TokenDuration: cfg.Auth.TokenDuration,
		},
		Files: ServerFiles{
			DataDir:   cfg.Storage.Files.DataDir,
			UploadDir: cfg.Storage.Files.UploadDir,
		},
		HTTP: ServerHTTP{
			Address:        cfg.Server.HTTPAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
	}

	return serverCfg, serverCfg.validate()
}
