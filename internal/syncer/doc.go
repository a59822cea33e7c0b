// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The flatnotes Authors

// Package syncer implements the local-first synchronization engine of
// flatnotes.
//
// Every local write lands in the SQLite cache synchronously and is counted
// as a pending change; a debounced push later sends the complete notes and
// categories collections to the remote store, which makes retries
// idempotent. A periodic pull fetches the remote collections, lets newer
// remote notes win, drops notes deleted remotely, and replaces the local
// categories collection whenever it differs at all.
//
// The engine owns a single scheduler goroutine; every push and pull runs on
// it, so at most one of each is in flight and no locking is needed around
// the push/pull sequence itself. Facade calls communicate with the scheduler
// over channels.
package syncer
