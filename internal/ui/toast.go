package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Toasts are non-blocking corner notifications that auto-dismiss, so a
// failed call never traps the user in a modal.

type toastKind int

const (
	toastInfo toastKind = iota
	toastError
)

const (
	infoToastDuration  = 4 * time.Second
	errorToastDuration = 8 * time.Second
)

var toastSeq atomic.Int64

type toast struct {
	id      int64
	kind    toastKind
	message string
}

type toastExpiredMsg struct{ id int64 }

func newToast(kind toastKind, message string) (toast, tea.Cmd) {
	t := toast{id: toastSeq.Add(1), kind: kind, message: message}
	d := infoToastDuration
	if kind == toastError {
		d = errorToastDuration
	}
	id := t.id
	return t, tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (t toast) render() string {
	if t.kind == toastError {
		return toastErrorStyle.Render(t.message)
	}
	return toastInfoStyle.Render(t.message)
}
