package syncer

import (
	"time"

	"github.com/mailguest/flatnotes/internal/config"
)

// Config carries the timing constants of the engine. The zero value of any
// field falls back to the corresponding default.
type Config struct {
	// MaxPending is the pending-change count that triggers an immediate
	// push instead of waiting out the debounce delay.
	MaxPending int

	// ForceSyncDelay is the debounce delay: a push fires this long after
	// the last local write, unless another write restarts the timer.
	ForceSyncDelay time.Duration

	// AutoSyncInterval is the periodic safety-net push interval; it also
	// bounds how stale lastSyncTime may get before a save pushes
	// immediately.
	AutoSyncInterval time.Duration

	// DataCheckInterval is the periodic pull interval.
	DataCheckInterval time.Duration

	// ReconnectSettleDelay postpones the catch-up push after connectivity
	// returns, to avoid hammering a just-recovered connection.
	ReconnectSettleDelay time.Duration

	// FlushTimeout bounds the best-effort push attempted during teardown.
	FlushTimeout time.Duration
}

// Defaults mirroring the reference timing constants.
const (
	defaultMaxPending           = 10
	defaultForceSyncDelay       = 5 * time.Second
	defaultAutoSyncInterval     = 30 * time.Second
	defaultDataCheckInterval    = 5 * time.Minute
	defaultReconnectSettleDelay = 1 * time.Second
	defaultFlushTimeout         = 2 * time.Second
)

// DefaultConfig returns the reference timing constants.
func DefaultConfig() Config {
	return Config{
		MaxPending:           defaultMaxPending,
		ForceSyncDelay:       defaultForceSyncDelay,
		AutoSyncInterval:     defaultAutoSyncInterval,
		DataCheckInterval:    defaultDataCheckInterval,
		ReconnectSettleDelay: defaultReconnectSettleDelay,
		FlushTimeout:         defaultFlushTimeout,
	}
}

// ConfigFromClient maps the client configuration view onto an engine Config,
// filling unset fields with defaults.
func ConfigFromClient(cfg config.ClientSync) Config {
	out := DefaultConfig()
	if cfg.MaxPending > 0 {
		out.MaxPending = cfg.MaxPending
	}
	if cfg.ForceSyncDelay > 0 {
		out.ForceSyncDelay = cfg.ForceSyncDelay
	}
	if cfg.AutoSyncInterval > 0 {
		out.AutoSyncInterval = cfg.AutoSyncInterval
	}
	if cfg.DataCheckInterval > 0 {
		out.DataCheckInterval = cfg.DataCheckInterval
	}
	return out
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxPending <= 0 {
		c.MaxPending = d.MaxPending
	}
	if c.ForceSyncDelay <= 0 {
		c.ForceSyncDelay = d.ForceSyncDelay
	}
	if c.AutoSyncInterval <= 0 {
		c.AutoSyncInterval = d.AutoSyncInterval
	}
	if c.DataCheckInterval <= 0 {
		c.DataCheckInterval = d.DataCheckInterval
	}
	if c.ReconnectSettleDelay <= 0 {
		c.ReconnectSettleDelay = d.ReconnectSettleDelay
	}
	if c.FlushTimeout <= 0 {
		c.FlushTimeout = d.FlushTimeout
	}
	return c
}
