package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgOpDone MsgKind = iota
	MsgStateChanged
	MsgTick
)

type opResult struct {
	status string
	err    error
	goTo   ViewState
}

// opDoneMsg is the constructor for [MsgOpDone]
func opDoneMsg(status string, err error, goTo ViewState) Msg {
	return Msg{kind: MsgOpDone, data: opResult{status: status, err: err, goTo: goTo}}
}

// stateChangedMsg is the constructor for [MsgStateChanged]
func stateChangedMsg() Msg {
	return Msg{kind: MsgStateChanged}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg() Msg {
	return Msg{kind: MsgTick}
}
