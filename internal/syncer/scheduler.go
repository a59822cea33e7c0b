package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailguest/flatnotes/models"
)

// startScheduler launches the scheduler goroutine and the connectivity
// monitor. Calling it on an already-running engine is a no-op.
func (e *Engine) startScheduler(ctx context.Context) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.startedAt = time.Now()
	e.done = make(chan struct{})
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e.cancel = cancel
	e.mu.Unlock()

	if e.monitor != nil {
		e.monitor.Start(runCtx)
	}

	e.wg.Add(1)
	go e.run(runCtx)
}

// run is the scheduler loop. It is the single goroutine through which every
// push and pull flows, which is what guarantees that at most one sync
// operation is in flight at a time. Timers:
//
//   - debounce: armed on each save, collapses bursts into one push
//   - auto:     pushes leftovers even when saves never go quiet
//   - pull:     periodic fetch of remote changes
//   - settle:   one-shot delay after reconnecting with a backlog
func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	debounce := time.NewTimer(e.cfg.ForceSyncDelay)
	if !debounce.Stop() {
		<-debounce.C
	}
	settle := time.NewTimer(e.cfg.ReconnectSettleDelay)
	if !settle.Stop() {
		<-settle.C
	}
	autoTick := time.NewTicker(e.cfg.AutoSyncInterval)
	defer autoTick.Stop()
	pullTick := time.NewTicker(e.cfg.DataCheckInterval)
	defer pullTick.Stop()

	var events <-chan bool
	if e.monitor != nil {
		events = e.monitor.Events()
	}

	for {
		select {
		case <-ctx.Done():
			e.shutdownFlush()
			e.mu.Lock()
			e.started = false
			close(e.done)
			e.mu.Unlock()
			return

		case <-e.saveSignal:
			// A full queue or a stale last sync overrides the debounce
			// delay; otherwise each save pushes the deadline out again.
			if e.pendingCount() >= e.cfg.MaxPending || e.sinceLastSync() > e.cfg.AutoSyncInterval {
				stopTimer(debounce)
				e.backgroundPush(ctx)
				continue
			}
			stopTimer(debounce)
			debounce.Reset(e.cfg.ForceSyncDelay)

		case <-debounce.C:
			e.backgroundPush(ctx)

		case <-autoTick.C:
			if e.pendingCount() > 0 {
				e.backgroundPush(ctx)
			}

		case <-pullTick.C:
			if err := e.pull(ctx); err != nil {
				e.logger.Debug().Err(err).Msg("periodic pull failed")
			}

		case online := <-events:
			if online {
				e.logger.Info().Msg("connectivity restored")
				if e.pendingCount() > 0 {
					stopTimer(settle)
					settle.Reset(e.cfg.ReconnectSettleDelay)
				}
			} else {
				e.logger.Warn().Msg("connectivity lost, queueing changes locally")
			}

		case <-settle.C:
			e.backgroundPush(ctx)

		case reply := <-e.forceCh:
			stopTimer(debounce)
			reply <- e.push(ctx)

		case reply := <-e.checkCh:
			reply <- e.pull(ctx)
		}
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

// backgroundPush is the fire-and-forget variant used by the timer paths.
// Failures are logged and the pending counter is left intact, so the next
// trigger retries the same backlog.
func (e *Engine) backgroundPush(ctx context.Context) {
	if err := e.push(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("background push failed, changes stay queued")
	}
}

// push replicates the full local snapshot to the remote store. The pending
// counter is sampled before the snapshot is read: saves racing with an
// in-flight push land in the local store after the read and must survive the
// counter reset, so only the sampled amount is subtracted on success.
func (e *Engine) push(ctx context.Context) error {
	if !e.online() {
		return ErrOffline
	}

	e.mu.RLock()
	pendingBefore := e.pending
	e.mu.RUnlock()
	if pendingBefore == 0 {
		return nil
	}

	state, err := e.local.GetAppState(ctx)
	if err != nil {
		return fmt.Errorf("read local state: %w", err)
	}

	if err = e.remote.ReplaceNotes(ctx, state.Notes); err != nil {
		e.handleUnauthorized(ctx, err)
		return fmt.Errorf("push notes: %w", err)
	}
	if err = e.remote.ReplaceCategories(ctx, state.Categories); err != nil {
		e.handleUnauthorized(ctx, err)
		return fmt.Errorf("push categories: %w", err)
	}

	e.mu.Lock()
	e.pending -= pendingBefore
	if e.pending < 0 {
		e.pending = 0
	}
	e.lastSync = time.Now()
	e.mu.Unlock()

	e.logger.Debug().Int("changes", pendingBefore).Msg("pushed local changes to remote store")
	return nil
}

// pull fetches the remote collections, merges them against the local state,
// and notifies subscribers about whatever actually changed. Unsynced local
// edits survive the merge; see MergeNotes for the per-note rules.
func (e *Engine) pull(ctx context.Context) error {
	if !e.online() {
		return ErrOffline
	}

	remoteNotes, err := e.remote.ListNotes(ctx)
	if err != nil {
		e.handleUnauthorized(ctx, err)
		return fmt.Errorf("pull notes: %w", err)
	}
	remoteCategories, err := e.remote.ListCategories(ctx)
	if err != nil {
		e.handleUnauthorized(ctx, err)
		return fmt.Errorf("pull categories: %w", err)
	}

	local, err := e.local.GetAppState(ctx)
	if err != nil {
		return fmt.Errorf("read local state: %w", err)
	}

	mergedNotes, notesChanged := MergeNotes(local.Notes, remoteNotes)
	mergedCategories, categoriesChanged := ReconcileCategories(local.Categories, remoteCategories)

	if !notesChanged && !categoriesChanged {
		return nil
	}

	merged := models.AppState{Notes: mergedNotes, Categories: mergedCategories}
	if err = e.local.SaveAppState(ctx, merged); err != nil {
		return fmt.Errorf("save merged state: %w", err)
	}

	update := models.RemoteUpdate{}
	if notesChanged {
		update.Notes = mergedNotes
	}
	if categoriesChanged {
		update.Categories = mergedCategories
	}
	e.notifySubscribers(update)

	e.logger.Debug().
		Bool("notes", notesChanged).
		Bool("categories", categoriesChanged).
		Msg("merged remote changes into local store")
	return nil
}

// shutdownFlush makes one best-effort push of the remaining backlog during
// Stop. It runs on a fresh short-lived context because the loop context is
// already cancelled.
func (e *Engine) shutdownFlush() {
	if e.pendingCount() == 0 || !e.online() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.FlushTimeout)
	defer cancel()

	if err := e.push(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("final flush failed, changes remain in local store")
	}
}
