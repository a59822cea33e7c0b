package syncer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailguest/flatnotes/internal/adapter"
	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/store"
	"github.com/mailguest/flatnotes/models"
)

// ── Fakes ───────────────────────────────────────────────────────────────────

type fakeLocal struct {
	mu    sync.Mutex
	state models.AppState
	ui    models.UIState
	token string
}

var _ store.LocalStorage = (*fakeLocal)(nil)

func (f *fakeLocal) GetAppState(context.Context) (models.AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, nil
}

func (f *fakeLocal) SaveAppState(_ context.Context, state models.AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
	return nil
}

func (f *fakeLocal) GetUIState(context.Context) (models.UIState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ui, nil
}

func (f *fakeLocal) SaveUIState(_ context.Context, ui models.UIState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ui = ui
	return nil
}

func (f *fakeLocal) GetToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == "" {
		return "", store.ErrKeyNotFound
	}
	return f.token, nil
}

func (f *fakeLocal) SaveToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	return nil
}

func (f *fakeLocal) DeleteToken(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	return nil
}

func (f *fakeLocal) snapshot() models.AppState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

type fakeRemote struct {
	mu         sync.Mutex
	token      string
	notes      []models.Note
	categories []models.Category

	healthErr  error
	replaceErr error
	listErr    error

	healthCalls  atomic.Int64
	replaceCalls atomic.Int64
	listCalls    atomic.Int64
}

var _ adapter.RemoteStore = (*fakeRemote)(nil)

func (f *fakeRemote) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeRemote) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeRemote) Register(context.Context, models.User) (models.Token, error) {
	return models.Token{}, nil
}

func (f *fakeRemote) Login(context.Context, models.User) (models.Token, error) {
	return models.Token{}, nil
}

func (f *fakeRemote) Health(context.Context) error {
	f.healthCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthErr
}

func (f *fakeRemote) ListNotes(context.Context) ([]models.Note, error) {
	f.listCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.notes, nil
}

func (f *fakeRemote) ReplaceNotes(_ context.Context, notes []models.Note) error {
	f.replaceCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.notes = notes
	return nil
}

func (f *fakeRemote) ListCategories(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.categories, nil
}

func (f *fakeRemote) ReplaceCategories(_ context.Context, categories []models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.categories = categories
	return nil
}

func (f *fakeRemote) UpdateNoteOrder(context.Context, string, int) error    { return nil }
func (f *fakeRemote) UpdateNoteCategory(context.Context, string, string) error { return nil }
func (f *fakeRemote) ReorderNotes(context.Context, []models.ReorderEntry) error {
	return nil
}
func (f *fakeRemote) ReorderCategories(context.Context, []models.ReorderEntry) error {
	return nil
}

func (f *fakeRemote) UploadAttachment(_ context.Context, name, _ string, data []byte) (models.UploadResponse, error) {
	return models.UploadResponse{Filename: name, URL: "/upload/" + name, Size: int64(len(data))}, nil
}

func (f *fakeRemote) DeleteAttachment(context.Context, string) error { return nil }

func (f *fakeRemote) setNotes(notes []models.Note) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = notes
}

type fakeMonitor struct {
	online atomic.Bool
	events chan bool
}

func newFakeMonitor(online bool) *fakeMonitor {
	m := &fakeMonitor{events: make(chan bool, 4)}
	m.online.Store(online)
	return m
}

func (m *fakeMonitor) Online() bool          { return m.online.Load() }
func (m *fakeMonitor) Events() <-chan bool   { return m.events }
func (m *fakeMonitor) Start(context.Context) {}
func (m *fakeMonitor) Stop()                 {}

func (m *fakeMonitor) setOnline(v bool) {
	m.online.Store(v)
	m.events <- v
}

// ── Test helpers ────────────────────────────────────────────────────────────

func fastConfig() Config {
	return Config{
		MaxPending:           10,
		ForceSyncDelay:       40 * time.Millisecond,
		AutoSyncInterval:     time.Hour,
		DataCheckInterval:    time.Hour,
		ReconnectSettleDelay: 30 * time.Millisecond,
		FlushTimeout:         time.Second,
	}
}

func startedEngine(t *testing.T, cfg Config) (*Engine, *fakeLocal, *fakeRemote, *fakeMonitor) {
	t.Helper()

	local := &fakeLocal{}
	remote := &fakeRemote{}
	monitor := newFakeMonitor(true)

	engine := NewEngine(local, remote, monitor, cfg, logger.Nop())
	mode := engine.Start(context.Background())
	require.Equal(t, models.StorageModeRemote, mode)
	t.Cleanup(engine.Stop)

	return engine, local, remote, monitor
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

// ── Start ───────────────────────────────────────────────────────────────────

func TestStartNoRemoteConfigured(t *testing.T) {
	engine := NewEngine(&fakeLocal{}, nil, nil, DefaultConfig(), logger.Nop())

	mode := engine.Start(context.Background())

	assert.Equal(t, models.StorageModeLocal, mode)
	engine.Stop()
}

func TestStartProbeFailureFallsBackToLocal(t *testing.T) {
	remote := &fakeRemote{healthErr: adapter.ErrNotFound}
	engine := NewEngine(&fakeLocal{}, remote, newFakeMonitor(false), DefaultConfig(), logger.Nop())

	mode := engine.Start(context.Background())

	assert.Equal(t, models.StorageModeLocal, mode)
	assert.EqualValues(t, 1, remote.healthCalls.Load())
	engine.Stop()
}

func TestStartLoadsStoredTokenIntoAdapter(t *testing.T) {
	local := &fakeLocal{token: "stored-token"}
	remote := &fakeRemote{}
	engine := NewEngine(local, remote, newFakeMonitor(true), fastConfig(), logger.Nop())
	t.Cleanup(engine.Stop)

	mode := engine.Start(context.Background())

	require.Equal(t, models.StorageModeRemote, mode)
	assert.Equal(t, "stored-token", remote.Token())
}

func TestSwitchToRemoteUpgradesLocalSession(t *testing.T) {
	remote := &fakeRemote{healthErr: adapter.ErrNotFound}
	engine := NewEngine(&fakeLocal{}, remote, newFakeMonitor(true), fastConfig(), logger.Nop())
	t.Cleanup(engine.Stop)

	require.Equal(t, models.StorageModeLocal, engine.Start(context.Background()))

	err := engine.SwitchToRemote(context.Background())
	require.ErrorIs(t, err, ErrRemoteUnavailable)

	remote.mu.Lock()
	remote.healthErr = nil
	remote.mu.Unlock()

	require.NoError(t, engine.SwitchToRemote(context.Background()))
	assert.Equal(t, models.StorageModeRemote, engine.Mode())
}

// ── SaveData ────────────────────────────────────────────────────────────────

func TestSaveDataLocalModeDoesNotQueue(t *testing.T) {
	engine := NewEngine(&fakeLocal{}, nil, nil, DefaultConfig(), logger.Nop())
	require.Equal(t, models.StorageModeLocal, engine.Start(context.Background()))

	now := time.Now().UTC()
	err := engine.SaveData(context.Background(), models.AppState{
		Notes: []models.Note{noteAt("a", "hello", now)},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, engine.Status().PendingChanges)
	engine.Stop()
}

func TestSaveDataDebouncedPush(t *testing.T) {
	engine, _, remote, _ := startedEngine(t, fastConfig())

	now := time.Now().UTC()
	state := models.AppState{Notes: []models.Note{noteAt("a", "v1", now)}}
	require.NoError(t, engine.SaveData(context.Background(), state))

	assert.Equal(t, 1, engine.Status().PendingChanges)
	assert.EqualValues(t, 0, remote.replaceCalls.Load())

	waitFor(t, func() bool { return remote.replaceCalls.Load() >= 1 }, "debounced push never fired")
	waitFor(t, func() bool { return engine.Status().PendingChanges == 0 }, "pending count not reset")

	status := engine.Status()
	require.NotNil(t, status.LastSyncTime)
}

func TestSaveDataBurstCoalescesIntoOnePush(t *testing.T) {
	engine, _, remote, _ := startedEngine(t, fastConfig())

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		state := models.AppState{Notes: []models.Note{noteAt("a", "edit", now.Add(time.Duration(i)*time.Millisecond))}}
		require.NoError(t, engine.SaveData(context.Background(), state))
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, func() bool { return engine.Status().PendingChanges == 0 }, "burst never flushed")
	// ReplaceNotes and ReplaceCategories run as one sync operation.
	assert.EqualValues(t, 1, remote.replaceCalls.Load())
}

func TestSaveDataFullQueuePushesImmediately(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxPending = 3
	cfg.ForceSyncDelay = time.Hour // debounce must not be the trigger
	engine, _, remote, _ := startedEngine(t, cfg)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		state := models.AppState{Notes: []models.Note{noteAt("a", "spam", now.Add(time.Duration(i)*time.Millisecond))}}
		require.NoError(t, engine.SaveData(context.Background(), state))
	}

	waitFor(t, func() bool { return remote.replaceCalls.Load() >= 1 }, "full queue did not trigger a push")
	waitFor(t, func() bool { return engine.Status().PendingChanges == 0 }, "pending count not reset")
}

func TestSaveDataAutoTickerPushesLoneQueuedSave(t *testing.T) {
	cfg := fastConfig()
	cfg.ForceSyncDelay = time.Hour // debounce must not be the trigger
	cfg.AutoSyncInterval = 80 * time.Millisecond
	engine, _, remote, _ := startedEngine(t, cfg)

	state := models.AppState{Notes: []models.Note{noteAt("a", "v1", time.Now().UTC())}}
	require.NoError(t, engine.SaveData(context.Background(), state))
	assert.EqualValues(t, 0, remote.replaceCalls.Load())

	waitFor(t, func() bool { return remote.replaceCalls.Load() >= 1 }, "periodic ticker did not push the queued save")
	waitFor(t, func() bool { return engine.Status().PendingChanges == 0 }, "pending count not reset")
}

func TestSaveDataStaleSessionPushesWithoutDebounce(t *testing.T) {
	cfg := fastConfig()
	cfg.ForceSyncDelay = time.Hour // debounce must not be the trigger
	cfg.AutoSyncInterval = 60 * time.Millisecond
	engine, _, remote, _ := startedEngine(t, cfg)

	// let the session grow older than the auto interval before saving, so
	// the save itself trips the staleness override
	time.Sleep(100 * time.Millisecond)

	state := models.AppState{Notes: []models.Note{noteAt("a", "v1", time.Now().UTC())}}
	require.NoError(t, engine.SaveData(context.Background(), state))

	waitFor(t, func() bool { return remote.replaceCalls.Load() >= 1 }, "stale save was not pushed")
	waitFor(t, func() bool { return engine.Status().PendingChanges == 0 }, "pending count not reset")
}

func TestUIStateStaysLocal(t *testing.T) {
	engine, local, remote, _ := startedEngine(t, fastConfig())

	ui := models.UIState{SelectedNoteID: "n1", SelectedCategory: "inbox"}
	require.NoError(t, engine.SaveUIState(context.Background(), ui))

	got, err := engine.LoadUIState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ui, got)

	// selection writes are not pending changes and never reach the remote
	assert.Equal(t, 0, engine.Status().PendingChanges)
	time.Sleep(2 * fastConfig().ForceSyncDelay)
	assert.EqualValues(t, 0, remote.replaceCalls.Load())

	stored, err := local.GetUIState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ui, stored)
}

func TestForceSyncDuringStopReturnsPromptly(t *testing.T) {
	engine, _, _, _ := startedEngine(t, fastConfig())

	result := make(chan error, 1)
	go func() {
		result <- engine.ForceSyncToServer(context.Background())
	}()
	engine.Stop()

	select {
	case err := <-result:
		if err != nil {
			assert.ErrorIs(t, err, ErrStopped)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("force sync blocked across engine stop")
	}
}

func TestSaveDataOfflineKeepsChangesQueued(t *testing.T) {
	engine, _, remote, monitor := startedEngine(t, fastConfig())
	monitor.online.Store(false)

	now := time.Now().UTC()
	require.NoError(t, engine.SaveData(context.Background(), models.AppState{
		Notes: []models.Note{noteAt("a", "offline edit", now)},
	}))

	time.Sleep(120 * time.Millisecond)
	assert.EqualValues(t, 0, remote.replaceCalls.Load())
	assert.Equal(t, 1, engine.Status().PendingChanges)
}

func TestSaveDataReassignsOrphanedCategory(t *testing.T) {
	engine, local, _, _ := startedEngine(t, fastConfig())

	now := time.Now().UTC()
	note := noteAt("a", "text", now)
	note.Category = "deleted-category"
	state := models.AppState{
		Notes: []models.Note{note},
		Categories: []models.Category{
			{ID: "second", Name: "Second", Order: 1},
			{ID: "first", Name: "First", Order: 0},
		},
	}

	require.NoError(t, engine.SaveData(context.Background(), state))

	saved := local.snapshot()
	require.Len(t, saved.Notes, 1)
	assert.Equal(t, "first", saved.Notes[0].Category)
}

func TestSaveDataBumpsUpdatedAtOnChange(t *testing.T) {
	engine, local, _, _ := startedEngine(t, fastConfig())

	created := time.Now().UTC().Add(-time.Hour)
	note := noteAt("a", "v1", created)
	require.NoError(t, engine.SaveData(context.Background(), models.AppState{Notes: []models.Note{note}}))

	first := local.snapshot().Notes[0].UpdatedAt

	edited := local.snapshot().Notes[0]
	edited.Content = "v2"
	require.NoError(t, engine.SaveData(context.Background(), models.AppState{Notes: []models.Note{edited}}))

	second := local.snapshot().Notes[0].UpdatedAt
	assert.True(t, second.After(created))
	assert.False(t, second.Before(first))
}

// ── ForceSyncToServer / CheckForDataUpdates ─────────────────────────────────

func TestForceSyncFastFails(t *testing.T) {
	engine := NewEngine(&fakeLocal{}, nil, nil, DefaultConfig(), logger.Nop())
	require.Equal(t, models.StorageModeLocal, engine.Start(context.Background()))

	assert.ErrorIs(t, engine.ForceSyncToServer(context.Background()), ErrNotRemoteMode)
	engine.Stop()
}

func TestForceSyncOffline(t *testing.T) {
	engine, _, _, monitor := startedEngine(t, fastConfig())
	monitor.online.Store(false)

	assert.ErrorIs(t, engine.ForceSyncToServer(context.Background()), ErrOffline)
}

func TestForceSyncPushesImmediately(t *testing.T) {
	cfg := fastConfig()
	cfg.ForceSyncDelay = time.Hour
	engine, _, remote, _ := startedEngine(t, cfg)

	now := time.Now().UTC()
	require.NoError(t, engine.SaveData(context.Background(), models.AppState{
		Notes: []models.Note{noteAt("a", "urgent", now)},
	}))

	require.NoError(t, engine.ForceSyncToServer(context.Background()))
	assert.EqualValues(t, 1, remote.replaceCalls.Load())
	assert.Equal(t, 0, engine.Status().PendingChanges)
}

func TestForceSyncSurfacesRemoteError(t *testing.T) {
	cfg := fastConfig()
	cfg.ForceSyncDelay = time.Hour
	engine, _, remote, _ := startedEngine(t, cfg)

	remote.mu.Lock()
	remote.replaceErr = adapter.ErrNotFound
	remote.mu.Unlock()

	now := time.Now().UTC()
	require.NoError(t, engine.SaveData(context.Background(), models.AppState{
		Notes: []models.Note{noteAt("a", "doomed", now)},
	}))

	err := engine.ForceSyncToServer(context.Background())
	require.ErrorIs(t, err, adapter.ErrNotFound)
	assert.Equal(t, 1, engine.Status().PendingChanges)
}

func TestCheckForDataUpdatesMergesAndNotifies(t *testing.T) {
	engine, local, remote, _ := startedEngine(t, fastConfig())

	base := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, local.SaveAppState(context.Background(), models.AppState{
		Notes: []models.Note{noteAt("a", "stale", base)},
	}))
	remote.setNotes([]models.Note{noteAt("a", "fresh", base.Add(time.Minute))})

	var gotMu sync.Mutex
	var got []models.RemoteUpdate
	unsubscribe := engine.Subscribe(func(u models.RemoteUpdate) {
		gotMu.Lock()
		defer gotMu.Unlock()
		got = append(got, u)
	})
	defer unsubscribe()

	require.NoError(t, engine.CheckForDataUpdates(context.Background()))

	gotMu.Lock()
	defer gotMu.Unlock()
	require.Len(t, got, 1)
	require.Len(t, got[0].Notes, 1)
	assert.Equal(t, "fresh", got[0].Notes[0].Content)
	assert.Nil(t, got[0].Categories)
	assert.Equal(t, "fresh", local.snapshot().Notes[0].Content)
}

func TestCheckForDataUpdatesNoChangesNoNotification(t *testing.T) {
	engine, local, remote, _ := startedEngine(t, fastConfig())

	base := time.Now().UTC()
	shared := []models.Note{noteAt("a", "same", base)}
	require.NoError(t, local.SaveAppState(context.Background(), models.AppState{Notes: shared}))
	remote.setNotes(shared)

	var calls atomic.Int64
	defer engine.Subscribe(func(models.RemoteUpdate) { calls.Add(1) })()

	require.NoError(t, engine.CheckForDataUpdates(context.Background()))
	assert.EqualValues(t, 0, calls.Load())
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	engine, local, remote, _ := startedEngine(t, fastConfig())

	var calls atomic.Int64
	unsubscribe := engine.Subscribe(func(models.RemoteUpdate) { calls.Add(1) })
	unsubscribe()

	base := time.Now().UTC()
	require.NoError(t, local.SaveAppState(context.Background(), models.AppState{}))
	remote.setNotes([]models.Note{noteAt("a", "new", base)})

	require.NoError(t, engine.CheckForDataUpdates(context.Background()))
	assert.EqualValues(t, 0, calls.Load())
}

// ── Connectivity transitions ────────────────────────────────────────────────

func TestReconnectFlushesBacklogAfterSettleDelay(t *testing.T) {
	cfg := fastConfig()
	cfg.ForceSyncDelay = time.Hour
	engine, _, remote, monitor := startedEngine(t, cfg)
	monitor.online.Store(false)

	now := time.Now().UTC()
	require.NoError(t, engine.SaveData(context.Background(), models.AppState{
		Notes: []models.Note{noteAt("a", "queued offline", now)},
	}))
	require.Equal(t, 1, engine.Status().PendingChanges)

	monitor.setOnline(true)

	waitFor(t, func() bool { return remote.replaceCalls.Load() >= 1 }, "reconnect did not flush the backlog")
	waitFor(t, func() bool { return engine.Status().PendingChanges == 0 }, "pending count not reset after reconnect")
}

func TestReconnectWithoutBacklogStaysQuiet(t *testing.T) {
	engine, _, remote, monitor := startedEngine(t, fastConfig())
	monitor.online.Store(false)
	monitor.setOnline(true)

	time.Sleep(100 * time.Millisecond)
	assert.EqualValues(t, 0, remote.replaceCalls.Load())
	assert.Equal(t, 0, engine.Status().PendingChanges)
}

// ── Session expiry ──────────────────────────────────────────────────────────

func TestUnauthorizedClearsTokenAndNotifies(t *testing.T) {
	cfg := fastConfig()
	cfg.ForceSyncDelay = time.Hour
	local := &fakeLocal{token: "expired-token"}
	remote := &fakeRemote{replaceErr: adapter.ErrUnauthorized}
	engine := NewEngine(local, remote, newFakeMonitor(true), cfg, logger.Nop())
	require.Equal(t, models.StorageModeRemote, engine.Start(context.Background()))
	t.Cleanup(engine.Stop)

	var expired atomic.Int64
	engine.OnSessionExpired(func() { expired.Add(1) })

	now := time.Now().UTC()
	require.NoError(t, engine.SaveData(context.Background(), models.AppState{
		Notes: []models.Note{noteAt("a", "x", now)},
	}))

	err := engine.ForceSyncToServer(context.Background())
	require.ErrorIs(t, err, adapter.ErrUnauthorized)

	assert.EqualValues(t, 1, expired.Load())
	assert.Empty(t, remote.Token())
	_, tokenErr := local.GetToken(context.Background())
	assert.ErrorIs(t, tokenErr, store.ErrKeyNotFound)
}

// ── Stop ────────────────────────────────────────────────────────────────────

func TestStopFlushesPendingChanges(t *testing.T) {
	cfg := fastConfig()
	cfg.ForceSyncDelay = time.Hour
	local := &fakeLocal{}
	remote := &fakeRemote{}
	engine := NewEngine(local, remote, newFakeMonitor(true), cfg, logger.Nop())
	require.Equal(t, models.StorageModeRemote, engine.Start(context.Background()))

	now := time.Now().UTC()
	require.NoError(t, engine.SaveData(context.Background(), models.AppState{
		Notes: []models.Note{noteAt("a", "last words", now)},
	}))

	engine.Stop()

	assert.EqualValues(t, 1, remote.replaceCalls.Load())
	require.Len(t, remote.notes, 1)
	assert.Equal(t, "last words", remote.notes[0].Content)
}

func TestStopIsIdempotent(t *testing.T) {
	engine, _, _, _ := startedEngine(t, fastConfig())
	engine.Stop()
	engine.Stop()
}

func TestOperationsAfterStopFail(t *testing.T) {
	engine, _, _, _ := startedEngine(t, fastConfig())
	engine.Stop()

	assert.ErrorIs(t, engine.ForceSyncToServer(context.Background()), ErrStopped)
	assert.ErrorIs(t, engine.CheckForDataUpdates(context.Background()), ErrStopped)
}

// ── LoadData ────────────────────────────────────────────────────────────────

func TestLoadDataRemoteRefreshesLocalCache(t *testing.T) {
	engine, local, remote, _ := startedEngine(t, fastConfig())

	base := time.Now().UTC()
	remote.setNotes([]models.Note{noteAt("a", "server copy", base)})

	state, err := engine.LoadData(context.Background())

	require.NoError(t, err)
	require.Len(t, state.Notes, 1)
	assert.Equal(t, "server copy", state.Notes[0].Content)
	assert.Equal(t, "server copy", local.snapshot().Notes[0].Content)
}

func TestLoadDataRemoteFailureDowngradesToLocal(t *testing.T) {
	engine, local, remote, _ := startedEngine(t, fastConfig())

	base := time.Now().UTC()
	require.NoError(t, local.SaveAppState(context.Background(), models.AppState{
		Notes: []models.Note{noteAt("a", "cached copy", base)},
	}))
	remote.mu.Lock()
	remote.listErr = adapter.ErrNotFound
	remote.mu.Unlock()

	state, err := engine.LoadData(context.Background())

	require.NoError(t, err)
	require.Len(t, state.Notes, 1)
	assert.Equal(t, "cached copy", state.Notes[0].Content)
	assert.Equal(t, models.StorageModeLocal, engine.Mode())
}
