package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
// An empty HTTPAddress means no remote store is configured and the client
// runs in local-only mode.
type ClientAdapter struct {
	// HTTPAddress is the remote store endpoint address.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path used by the client cache.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSync contains the engine timing constants. Zero values fall back to
// the engine defaults.
type ClientSync struct {
	MaxPending        int
	ForceSyncDelay    time.Duration
	AutoSyncInterval  time.Duration
	DataCheckInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains client transport address and timeout.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Sync contains engine timing settings.
	Sync ClientSync
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync: ClientSync{
			MaxPending:        cfg.Sync.MaxPending,
			ForceSyncDelay:    cfg.Sync.ForceSyncDelay,
			AutoSyncInterval:  cfg.Sync.AutoSyncInterval,
			DataCheckInterval: cfg.Sync.DataCheckInterval,
		},
	}

	return clientCfg, clientCfg.validate()
}
