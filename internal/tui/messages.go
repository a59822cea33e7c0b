package tui

import (
	"time"

	"github.com/mailguest/flatnotes/models"
)

type dataLoadedMsg struct {
	state models.AppState
	ui    models.UIState
	err   error
}

type uiSavedMsg struct {
	err error
}

type dataSavedMsg struct {
	err error
}

type syncDoneMsg struct {
	err error
}

type refreshDoneMsg struct {
	err error
}

type remoteUpdateMsg struct {
	update models.RemoteUpdate
}

type sessionExpiredMsg struct{}

type copiedMsg struct {
	err error
}

type statusTickMsg time.Time
