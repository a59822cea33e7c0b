// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for flatnotes.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Auth holds token signing settings used by the server.
	Auth Auth `envPrefix:"AUTH_"`

	// Storage holds configuration for all persistence backends: the client
	// SQLite cache and the server file store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client-side transport settings for reaching the
	// remote store.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the timing constants of the synchronization engine.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Auth holds token lifecycle settings for the credential-issuance endpoints.
type Auth struct {
	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: AUTH_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token.
	// Env: AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a token remains valid (e.g. "24h").
	// Env: AUTH_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// Storage groups the configuration for all persistence backends.
type Storage struct {
	// DB holds the client-side SQLite cache settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the server-side file store settings.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the client-side SQLite cache.
type DB struct {
	// DSN is the SQLite file path used by the client cache
	// (e.g. "flatnotes.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds file-system settings for the server-side note store.
type Files struct {
	// DataDir is the directory holding the notes metadata file, the
	// per-note content files, and the categories file.
	// Env: STORAGE_FILES_DATA_DIR
	DataDir string `env:"DATA_DIR"`

	// UploadDir is the directory attachments are uploaded into. Defaults to
	// "uploads" under DataDir when empty.
	// Env: STORAGE_FILES_UPLOAD_DIR
	UploadDir string `env:"UPLOAD_DIR"`
}

// Server holds network and timeout settings for the inbound HTTP layer.
type Server struct {
	// HTTPAddress is the TCP address the server listens on, "host:port".
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds client transport settings for reaching the remote store.
type Adapter struct {
	// HTTPAddress is the remote store base address, "host:port" or full URL.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the per-call timeout for outbound requests. Calls
	// past it simply fail; retry is the scheduler's job.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds the timing constants of the synchronization engine. Zero values
// fall back to the engine defaults (see syncer.DefaultConfig).
type Sync struct {
	// MaxPending is the pending-change count that triggers an immediate push.
	// Env: SYNC_MAX_PENDING
	MaxPending int `env:"MAX_PENDING"`

	// ForceSyncDelay is the debounce delay after the last local write.
	// Env: SYNC_FORCE_SYNC_DELAY
	ForceSyncDelay time.Duration `env:"FORCE_SYNC_DELAY"`

	// AutoSyncInterval is the periodic safety-net push interval.
	// Env: SYNC_AUTO_SYNC_INTERVAL
	AutoSyncInterval time.Duration `env:"AUTO_SYNC_INTERVAL"`

	// DataCheckInterval is the periodic pull interval.
	// Env: SYNC_DATA_CHECK_INTERVAL
	DataCheckInterval time.Duration `env:"DATA_CHECK_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (first non-zero value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
