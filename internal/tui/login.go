package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mailguest/flatnotes/internal/adapter"
	"github.com/mailguest/flatnotes/models"
)

// LoginFlow runs the credential screen against the remote store and returns
// the issued token. The remote adapter stores the token for its own requests
// as a side effect; persisting it is the caller's job.
func (t *TUI) LoginFlow(ctx context.Context, remote adapter.RemoteStore) (models.Token, error) {
	model := newLoginModel(ctx, remote)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return models.Token{}, err
	}

	result, ok := final.(loginModel)
	if !ok {
		return models.Token{}, tea.ErrProgramKilled
	}
	if result.quitByUser {
		return models.Token{}, ErrUserQuit
	}
	return result.token, nil
}

type authDoneMsg struct {
	token models.Token
	err   error
}

type loginModel struct {
	ctx    context.Context
	remote adapter.RemoteStore

	register   bool
	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string

	token      models.Token
	done       bool
	quitByUser bool
}

func newLoginModel(ctx context.Context, remote adapter.RemoteStore) loginModel {
	login := textinput.New()
	login.Placeholder = "login"
	login.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return loginModel{
		ctx:    ctx,
		remote: remote,
		inputs: []textinput.Model{login, password},
	}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) cmdSubmit() tea.Cmd {
	user := models.User{
		Login:    strings.TrimSpace(m.inputs[0].Value()),
		Password: m.inputs[1].Value(),
	}
	register := m.register

	return func() tea.Msg {
		var token models.Token
		var err error
		if register {
			token, err = m.remote.Register(m.ctx, user)
		} else {
			token, err = m.remote.Login(m.ctx, user)
		}
		return authDoneMsg{token: token, err: err}
	}
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.token = msg.token
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case keyMatches(msg, keys.quit) && !m.anyFocused():
			m.quitByUser = true
			return m, tea.Quit

		case msg.Type == tea.KeyCtrlC:
			m.quitByUser = true
			return m, tea.Quit

		case msg.Type == tea.KeyTab:
			m.register = !m.register
			return m, nil

		case msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
			m.focus = (m.focus + 1) % len(m.inputs)
			for i := range m.inputs {
				if i == m.focus {
					m.inputs[i].Focus()
				} else {
					m.inputs[i].Blur()
				}
			}
			return m, nil

		case msg.Type == tea.KeyEnter:
			if m.focus == 0 {
				m.focus = 1
				m.inputs[0].Blur()
				m.inputs[1].Focus()
				return m, nil
			}
			if !m.submitting {
				m.submitting = true
				m.errMsg = ""
				return m, m.cmdSubmit()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m loginModel) anyFocused() bool {
	for _, in := range m.inputs {
		if in.Focused() {
			return true
		}
	}
	return false
}

func (m loginModel) View() string {
	var b strings.Builder

	action := "Log in"
	if m.register {
		action = "Register"
	}
	b.WriteString(titleStyle.Render("flatnotes — " + action))
	b.WriteString("\n\n")

	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString("authenticating...\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter submit · tab switch login/register · ctrl+c quit"))

	return appStyle.Render(b.String())
}
