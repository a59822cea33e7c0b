// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Cross-cutting rules live here; per-binary rules live on the client and
// server config views.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	// An empty adapter address is a valid local-only setup; a configured
	// remote must come with a usable timeout or rely on the adapter default.
	if cfg.Adapter.HTTPAddress != "" && cfg.Adapter.RequestTimeout < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.MaxPending < 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTP.Address == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Files.DataDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Auth.TokenSignKey == "" {
		return ErrInvalidAuthConfigs
	}

	return nil
}
