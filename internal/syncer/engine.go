package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mailguest/flatnotes/internal/adapter"
	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/netmon"
	"github.com/mailguest/flatnotes/internal/store"
	"github.com/mailguest/flatnotes/models"
)

// Engine is the local-first synchronization engine. It is the only writer of
// the sync state and the only component that talks to both stores.
//
// remote may be nil, in which case the engine runs in local mode for its
// whole lifetime.
type Engine struct {
	local   store.LocalStorage
	remote  adapter.RemoteStore
	monitor netmon.Monitor
	cfg     Config
	logger  *logger.Logger

	mu        sync.RWMutex
	mode      models.StorageMode
	pending   int
	lastSync  time.Time // zero means never synced
	startedAt time.Time
	started   bool

	subMu     sync.Mutex
	subs      map[int64]func(models.RemoteUpdate)
	onExpired func()
	nextSubID int64

	saveSignal chan struct{}
	forceCh    chan chan error
	checkCh    chan chan error
	done       chan struct{} // closed when the scheduler goroutine exits
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewEngine wires the engine to its collaborators. Pass a nil remote for a
// local-only client. Timers are not armed until Start.
func NewEngine(local store.LocalStorage, remote adapter.RemoteStore, monitor netmon.Monitor, cfg Config, log *logger.Logger) *Engine {
	return &Engine{
		local:      local,
		remote:     remote,
		monitor:    monitor,
		cfg:        cfg.withDefaults(),
		logger:     log,
		mode:       models.StorageModeLocal,
		subs:       make(map[int64]func(models.RemoteUpdate)),
		saveSignal: make(chan struct{}, 1),
		forceCh:    make(chan chan error),
		checkCh:    make(chan chan error),
	}
}

// Start probes the remote store once and resolves the storage mode for this
// session. When the probe succeeds the engine enters remote mode, restores
// the stored credential into the transport, and arms the scheduler and the
// connectivity monitor. When it fails (or no remote is configured) the
// engine stays in local mode; no automatic retry-to-upgrade loop runs — a
// later SwitchToRemote re-probes.
func (e *Engine) Start(ctx context.Context) models.StorageMode {
	if e.remote == nil {
		e.logger.Info().Msg("no remote store configured, using local mode")
		return e.Mode()
	}

	if err := e.remote.Health(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("remote store unreachable, falling back to local mode")
		return e.Mode()
	}

	if token, err := e.local.GetToken(ctx); err == nil && token != "" {
		e.remote.SetToken(token)
	}

	e.mu.Lock()
	e.mode = models.StorageModeRemote
	e.mu.Unlock()

	e.startScheduler(ctx)

	e.logger.Info().Msg("remote store reachable, sync engine started")
	return e.Mode()
}

// SwitchToRemote re-probes the remote store and, on success, upgrades a
// local-mode session to remote mode. It is the only way out of a local
// downgrade.
func (e *Engine) SwitchToRemote(ctx context.Context) error {
	if e.remote == nil {
		return ErrRemoteUnavailable
	}
	if e.Mode() == models.StorageModeRemote {
		return nil
	}

	if err := e.remote.Health(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}

	if token, err := e.local.GetToken(ctx); err == nil && token != "" {
		e.remote.SetToken(token)
	}

	e.mu.Lock()
	e.mode = models.StorageModeRemote
	e.mu.Unlock()

	e.startScheduler(ctx)
	return nil
}

// Stop tears the scheduler down. Before exiting, the scheduler makes one
// best-effort push of any pending changes with whatever time FlushTimeout
// allows; this is advisory only, not a durability guarantee — the local
// store already holds every change.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()

	if e.monitor != nil {
		e.monitor.Stop()
	}
}

// LoadData returns the application state. In remote mode it fetches both
// collections from the remote store and refreshes the local cache; any
// failure logs, permanently downgrades this session to local mode, and
// falls back to the cache. In local mode it reads the cache directly.
func (e *Engine) LoadData(ctx context.Context) (models.AppState, error) {
	if e.Mode() == models.StorageModeRemote {
		state, err := e.loadRemote(ctx)
		if err == nil {
			return state, nil
		}

		e.logger.Error().Err(err).Msg("remote load failed, downgrading to local mode for this session")
		e.handleUnauthorized(ctx, err)
		e.mu.Lock()
		e.mode = models.StorageModeLocal
		e.mu.Unlock()
	}

	return e.local.GetAppState(ctx)
}

func (e *Engine) loadRemote(ctx context.Context) (models.AppState, error) {
	notes, err := e.remote.ListNotes(ctx)
	if err != nil {
		return models.AppState{}, fmt.Errorf("load remote notes: %w", err)
	}
	categories, err := e.remote.ListCategories(ctx)
	if err != nil {
		return models.AppState{}, fmt.Errorf("load remote categories: %w", err)
	}

	state := models.AppState{Notes: notes, Categories: categories}
	if err = e.local.SaveAppState(ctx, state); err != nil {
		e.logger.Warn().Err(err).Msg("failed to refresh local cache after remote load")
	}

	return state, nil
}

// SaveData persists the state. The local write is synchronous and
// unconditional; nothing committed here is lost by a crash one instruction
// later. In remote mode the write is counted as a pending change and handed
// to the scheduler's push policy; while offline it stays queued and no error
// is raised — delivery resumes with connectivity.
func (e *Engine) SaveData(ctx context.Context, state models.AppState) error {
	normalized, err := e.normalize(ctx, state)
	if err != nil {
		return err
	}

	if err := e.local.SaveAppState(ctx, normalized); err != nil {
		return fmt.Errorf("save local state: %w", err)
	}

	if e.Mode() != models.StorageModeRemote {
		return nil
	}

	e.mu.Lock()
	e.pending++
	e.mu.Unlock()

	e.signalSave()
	return nil
}

// LoadUIState returns the locally persisted UI selection. UI state never
// travels to the remote store in either direction.
func (e *Engine) LoadUIState(ctx context.Context) (models.UIState, error) {
	return e.local.GetUIState(ctx)
}

// SaveUIState persists the UI selection locally. It does not count as a
// pending change and never triggers a push.
func (e *Engine) SaveUIState(ctx context.Context, state models.UIState) error {
	return e.local.SaveUIState(ctx, state)
}

// normalize enforces the data-model invariants on an incoming snapshot:
// notes whose content differs from the stored copy get their UpdatedAt
// bumped to now (never below CreatedAt), and notes pointing at a category
// that no longer exists are reassigned to the default category — the first
// category in rank order — so deleting a category never orphans its notes.
func (e *Engine) normalize(ctx context.Context, state models.AppState) (models.AppState, error) {
	current, err := e.local.GetAppState(ctx)
	if err != nil {
		return models.AppState{}, fmt.Errorf("read current state: %w", err)
	}

	currentByID := make(map[string]models.Note, len(current.Notes))
	for _, n := range current.Notes {
		currentByID[n.ID] = n
	}

	known := make(map[string]bool, len(state.Categories))
	defaultCategory := models.CategoryUncategorized
	bestOrder := 0
	for i, c := range state.Categories {
		known[c.ID] = true
		if i == 0 || c.Order < bestOrder {
			defaultCategory = c.ID
			bestOrder = c.Order
		}
	}

	now := time.Now().UTC()
	for i := range state.Notes {
		note := &state.Notes[i]
		if note.Category == "" || (!known[note.Category] && note.Category != models.CategoryUncategorized) {
			note.Category = defaultCategory
		}
		if prev, ok := currentByID[note.ID]; !ok || !note.Equal(prev) {
			note.Touch(now)
		}
	}

	return state, nil
}

// ForceSyncToServer pushes the current snapshot immediately and surfaces any
// remote error to the caller, unlike the background path which only logs.
func (e *Engine) ForceSyncToServer(ctx context.Context) error {
	if e.Mode() != models.StorageModeRemote {
		return ErrNotRemoteMode
	}
	if !e.online() {
		return ErrOffline
	}

	reply := make(chan error, 1)
	if err := e.submit(ctx, e.forceCh, reply); err != nil {
		return err
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CheckForDataUpdates triggers an out-of-band pull regardless of the
// periodic timer's schedule and reports its outcome.
func (e *Engine) CheckForDataUpdates(ctx context.Context) error {
	if e.Mode() != models.StorageModeRemote {
		return ErrNotRemoteMode
	}

	reply := make(chan error, 1)
	if err := e.submit(ctx, e.checkCh, reply); err != nil {
		return err
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) submit(ctx context.Context, ch chan chan error, reply chan error) error {
	e.mu.RLock()
	running := e.started
	done := e.done
	e.mu.RUnlock()
	if !running {
		return ErrStopped
	}

	// The scheduler may exit between the check above and the send below;
	// done keeps the send from blocking past teardown.
	select {
	case ch <- reply:
		return nil
	case <-done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a read-only snapshot of the engine state.
func (e *Engine) Status() models.SyncState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state := models.SyncState{
		Mode:           e.mode,
		Online:         e.monitor != nil && e.monitor.Online(),
		PendingChanges: e.pending,
	}
	if !e.lastSync.IsZero() {
		t := e.lastSync
		state.LastSyncTime = &t
	}
	return state
}

// Mode returns the storage mode of the current session.
func (e *Engine) Mode() models.StorageMode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// Subscribe registers fn to be invoked whenever a pull discovers remote
// changes. fn receives only the changed top-level collections, never partial
// note fields. The returned function unsubscribes.
func (e *Engine) Subscribe(fn func(models.RemoteUpdate)) func() {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	id := e.nextSubID
	e.nextSubID++
	e.subs[id] = fn

	return func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		delete(e.subs, id)
	}
}

// OnSessionExpired registers the callback invoked once when the remote store
// rejects the stored credential. The credential is already cleared by the
// time the callback runs; the UI decides how to re-authenticate.
func (e *Engine) OnSessionExpired(fn func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.onExpired = fn
}

func (e *Engine) notifySubscribers(update models.RemoteUpdate) {
	e.subMu.Lock()
	fns := make([]func(models.RemoteUpdate), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(update)
	}
}

// handleUnauthorized clears the stored credential when err wraps the 401
// sentinel and fires the session-expired callback.
func (e *Engine) handleUnauthorized(ctx context.Context, err error) {
	if !errors.Is(err, adapter.ErrUnauthorized) {
		return
	}

	e.logger.Warn().Msg("credential rejected by remote store, clearing stored token")
	e.remote.SetToken("")
	if delErr := e.local.DeleteToken(ctx); delErr != nil {
		e.logger.Error().Err(delErr).Msg("failed to clear stored token")
	}

	e.subMu.Lock()
	fn := e.onExpired
	e.onExpired = nil
	e.subMu.Unlock()
	if fn != nil {
		fn()
	}
}

func (e *Engine) online() bool {
	return e.monitor != nil && e.monitor.Online()
}

func (e *Engine) signalSave() {
	select {
	case e.saveSignal <- struct{}{}:
	default:
	}
}

func (e *Engine) pendingCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pending
}

// sinceLastSync measures staleness against the last successful push, or
// against session start before the first push has happened. A fresh session
// therefore debounces normally instead of tripping the staleness override on
// its very first save.
func (e *Engine) sinceLastSync() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.lastSync.IsZero() {
		return time.Since(e.startedAt)
	}
	return time.Since(e.lastSync)
}
