package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/mailguest/flatnotes/internal/logger"
	"github.com/mailguest/flatnotes/internal/syncer"
	"github.com/mailguest/flatnotes/models"
)

type uiMode int

const (
	modeList uiMode = iota
	modeView
	modeEdit
)

type mainModel struct {
	ctx    context.Context
	engine *syncer.Engine
	logger *logger.Logger

	state   models.AppState
	ui      models.UIState
	idx     int
	mode    uiMode
	loading bool

	titleInput  textinput.Model
	contentArea textarea.Model
	editID      string

	status     string
	errMsg     string
	quitByUser bool
}

func newMainModel(ctx context.Context, engine *syncer.Engine, log *logger.Logger) mainModel {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Write your note..."

	return mainModel{
		ctx:         ctx,
		engine:      engine,
		logger:      log,
		loading:     true,
		titleInput:  title,
		contentArea: content,
	}
}

func (m mainModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoad(), statusTick())
}

// ── Commands ────────────────────────────────────────────────────────────────

func (m mainModel) cmdLoad() tea.Cmd {
	return func() tea.Msg {
		state, err := m.engine.LoadData(m.ctx)
		// the stored selection is cosmetic; a read failure falls back to
		// the first note
		ui, _ := m.engine.LoadUIState(m.ctx)
		return dataLoadedMsg{state: state, ui: ui, err: err}
	}
}

func (m mainModel) cmdSave(state models.AppState) tea.Cmd {
	return func() tea.Msg {
		return dataSavedMsg{err: m.engine.SaveData(m.ctx, state)}
	}
}

func (m mainModel) cmdForceSync() tea.Cmd {
	return func() tea.Msg {
		return syncDoneMsg{err: m.engine.ForceSyncToServer(m.ctx)}
	}
}

func (m mainModel) cmdRefresh() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: m.engine.CheckForDataUpdates(m.ctx)}
	}
}

func (m mainModel) cmdSaveUI(ui models.UIState) tea.Cmd {
	return func() tea.Msg {
		return uiSavedMsg{err: m.engine.SaveUIState(m.ctx, ui)}
	}
}

func cmdCopy(content string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(content)}
	}
}

func statusTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

// ── Update ──────────────────────────────────────────────────────────────────

func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.state = msg.state
		m.ui = msg.ui
		m.sortNotes()
		m.restoreSelection()
		m.clampIndex()
		return m, nil

	case dataSavedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.status = "saved"
		}
		return m, nil

	case syncDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("sync failed: %v", msg.err)
		} else {
			m.status = "synced"
		}
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("refresh failed: %v", msg.err)
		} else {
			m.status = "up to date"
		}
		return m, nil

	case remoteUpdateMsg:
		if msg.update.Notes != nil {
			m.state.Notes = msg.update.Notes
		}
		if msg.update.Categories != nil {
			m.state.Categories = msg.update.Categories
		}
		m.sortNotes()
		m.clampIndex()
		m.status = "updated from server"
		return m, nil

	case sessionExpiredMsg:
		m.errMsg = "session expired, working locally; restart and log in to resume sync"
		return m, nil

	case uiSavedMsg:
		if msg.err != nil {
			m.logger.Debug().Err(msg.err).Msg("failed to persist ui selection")
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.status = "copied to clipboard"
		}
		return m, nil

	case statusTickMsg:
		return m, statusTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m mainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeEdit {
		return m.handleEditKey(msg)
	}

	switch {
	case keyMatches(msg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit

	case keyMatches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
		cmd := m.persistSelection()
		return m, cmd

	case keyMatches(msg, keys.down):
		if m.idx < len(m.state.Notes)-1 {
			m.idx++
		}
		cmd := m.persistSelection()
		return m, cmd

	case keyMatches(msg, keys.enter):
		if m.mode == modeView {
			m.mode = modeList
		} else if len(m.state.Notes) > 0 {
			m.mode = modeView
		}
		return m, nil

	case keyMatches(msg, keys.esc):
		m.mode = modeList
		return m, nil

	case keyMatches(msg, keys.newNote):
		return m.startEdit(models.Note{}, true)

	case keyMatches(msg, keys.edit):
		if note, ok := m.current(); ok {
			return m.startEdit(note, false)
		}
		return m, nil

	case keyMatches(msg, keys.delete):
		if _, ok := m.current(); !ok {
			return m, nil
		}
		m.state.Notes = append(m.state.Notes[:m.idx], m.state.Notes[m.idx+1:]...)
		m.clampIndex()
		m.mode = modeList
		cmd := tea.Batch(m.cmdSave(m.state), m.persistSelection())
		return m, cmd

	case keyMatches(msg, keys.sync):
		m.status = "syncing..."
		return m, m.cmdForceSync()

	case keyMatches(msg, keys.refresh):
		m.status = "refreshing..."
		return m, m.cmdRefresh()

	case keyMatches(msg, keys.copy):
		if note, ok := m.current(); ok {
			return m, cmdCopy(note.Content)
		}
		return m, nil
	}

	return m, nil
}

func (m mainModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, keys.esc):
		m.mode = modeList
		return m, nil

	case keyMatches(msg, keys.save):
		return m.finishEdit()

	case msg.Type == tea.KeyTab:
		if m.titleInput.Focused() {
			m.titleInput.Blur()
			m.contentArea.Focus()
		} else {
			m.contentArea.Blur()
			m.titleInput.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.titleInput.Focused() {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.contentArea, cmd = m.contentArea.Update(msg)
	}
	return m, cmd
}

func (m mainModel) startEdit(note models.Note, isNew bool) (tea.Model, tea.Cmd) {
	if isNew {
		note = models.Note{
			ID:        uuid.NewString(),
			Category:  models.CategoryUncategorized,
			Order:     len(m.state.Notes),
			CreatedAt: time.Now().UTC(),
		}
	}

	m.editID = note.ID
	m.titleInput.SetValue(note.Title)
	m.contentArea.SetValue(note.Content)
	m.titleInput.Focus()
	m.contentArea.Blur()
	m.mode = modeEdit

	if isNew {
		m.state.Notes = append(m.state.Notes, note)
		m.idx = len(m.state.Notes) - 1
		cmd := m.persistSelection()
		return m, cmd
	}
	return m, nil
}

func (m mainModel) finishEdit() (tea.Model, tea.Cmd) {
	for i := range m.state.Notes {
		if m.state.Notes[i].ID == m.editID {
			m.state.Notes[i].Title = m.titleInput.Value()
			m.state.Notes[i].Content = m.contentArea.Value()
			break
		}
	}

	m.mode = modeList
	return m, m.cmdSave(m.state)
}

// ── View ────────────────────────────────────────────────────────────────────

func (m mainModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("flatnotes"))
	b.WriteString("\n\n")

	switch m.mode {
	case modeEdit:
		b.WriteString(m.titleInput.View())
		b.WriteString("\n\n")
		b.WriteString(m.contentArea.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("tab switch field · ctrl+s save · esc discard"))

	case modeView:
		if note, ok := m.current(); ok {
			b.WriteString(titleStyle.Render(note.Title))
			b.WriteString("\n")
			b.WriteString(statusStyle.Render(m.categoryName(note.Category) + " · edited " + note.UpdatedAt.Local().Format("2006-01-02 15:04")))
			b.WriteString("\n\n")
			b.WriteString(note.Content)
			b.WriteString("\n\n")
			b.WriteString(helpStyle.Render("e edit · c copy · esc back"))
		}

	default:
		if m.loading {
			b.WriteString("loading...\n")
		} else if len(m.state.Notes) == 0 {
			b.WriteString("no notes yet, press n to create one\n")
		} else {
			for i, note := range m.state.Notes {
				line := fmt.Sprintf("%-40s %s", truncate(note.Title, 40), m.categoryName(note.Category))
				if i == m.idx {
					line = selectedStyle.Render(line)
				}
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter view · n new · e edit · d delete · s sync · r refresh · q quit"))
	}

	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.syncStatusLine()))
	if m.status != "" {
		b.WriteString("  " + statusStyle.Render(m.status))
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}

	return appStyle.Render(b.String())
}

func (m mainModel) syncStatusLine() string {
	status := m.engine.Status()

	if status.Mode == models.StorageModeLocal {
		return "local mode"
	}

	line := "remote mode"
	if status.Online {
		line += " · online"
	} else {
		line += " · offline"
	}
	if status.PendingChanges > 0 {
		line += fmt.Sprintf(" · %d pending", status.PendingChanges)
	}
	if status.LastSyncTime != nil {
		line += " · synced " + status.LastSyncTime.Local().Format("15:04:05")
	}
	return line
}

// ── Helpers ─────────────────────────────────────────────────────────────────

func (m mainModel) current() (models.Note, bool) {
	if len(m.state.Notes) == 0 || m.idx < 0 || m.idx >= len(m.state.Notes) {
		return models.Note{}, false
	}
	return m.state.Notes[m.idx], true
}

// restoreSelection moves the cursor back to the note that was selected when
// the previous session ended, if it still exists.
func (m *mainModel) restoreSelection() {
	if m.ui.SelectedNoteID == "" {
		return
	}
	if i := noteIndexByID(m.state.Notes, m.ui.SelectedNoteID); i >= 0 {
		m.idx = i
	}
}

// persistSelection writes the current selection through the engine when it
// differs from the stored one. Selection is device-local state and never
// synchronized.
func (m *mainModel) persistSelection() tea.Cmd {
	note, ok := m.current()
	ui := models.UIState{}
	if ok {
		ui = models.UIState{SelectedNoteID: note.ID, SelectedCategory: note.Category}
	}
	if ui == m.ui {
		return nil
	}
	m.ui = ui
	return m.cmdSaveUI(ui)
}

func noteIndexByID(notes []models.Note, id string) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *mainModel) sortNotes() {
	sort.SliceStable(m.state.Notes, func(i, j int) bool {
		return m.state.Notes[i].Order < m.state.Notes[j].Order
	})
}

func (m *mainModel) clampIndex() {
	if m.idx >= len(m.state.Notes) {
		m.idx = len(m.state.Notes) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m mainModel) categoryName(id string) string {
	for _, c := range m.state.Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
