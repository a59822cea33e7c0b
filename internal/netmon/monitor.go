// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

// Package netmon tracks connectivity to the remote store. It exposes a single
// online/offline flag plus a transition stream; all retry policy lives in the
// sync engine, never here.
package netmon

import (
	"context"
	"sync"
	"time"
)

// Monitor reports whether the remote store is reachable.
type Monitor interface {
	// Online returns the current connectivity flag.
	Online() bool
	// Events delivers online/offline transitions. Only changes are sent.
	Events() <-chan bool
	// Start begins observing connectivity until ctx is cancelled.
	Start(ctx context.Context)
	// Stop tears the monitor down and waits for its goroutine to exit.
	Stop()
}

// ProbeFunc checks reachability of the remote store. A nil error means
// online.
type ProbeFunc func(ctx context.Context) error

const (
	defaultProbeInterval = 30 * time.Second
	probeTimeout         = 5 * time.Second
)

type probeMonitor struct {
	probe    ProbeFunc
	interval time.Duration

	mu     sync.RWMutex
	online bool

	events chan bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProbeMonitor creates a Monitor that derives the online flag by calling
// probe on a ticker. The monitor reports offline until Start runs; Start
// seeds the flag from a synchronous probe, so callers never act on the zero
// value.
func NewProbeMonitor(probe ProbeFunc, interval time.Duration) Monitor {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &probeMonitor{
		probe:    probe,
		interval: interval,
		events:   make(chan bool, 16),
	}
}

func (m *probeMonitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

func (m *probeMonitor) Events() <-chan bool {
	return m.events
}

func (m *probeMonitor) Start(ctx context.Context) {
	m.Stop()

	m.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	// Seed the flag before the ticker cadence begins. The seed is not a
	// transition, so no event is emitted for it.
	probeCtx, cancelProbe := context.WithTimeout(runCtx, probeTimeout)
	online := m.probe(probeCtx) == nil
	cancelProbe()

	m.mu.Lock()
	m.online = online
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		t := time.NewTicker(m.interval)
		defer t.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-t.C:
				m.check(runCtx)
			}
		}
	}()
}

func (m *probeMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

func (m *probeMonitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	online := m.probe(probeCtx) == nil

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	m.mu.Unlock()

	if changed {
		select {
		case m.events <- online:
		default:
			// The engine reads Online() on every decision; a dropped
			// transition only delays its reaction to the next tick.
		}
	}
}
