package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data opResult
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSpeakersLoaded MsgKind = iota
	MsgSpeakerRefreshed
	MsgCommandSent
	MsgVolumeSet
)

// opResult is the outcome of one session call made off the update loop.
type opResult struct {
	op   string
	art  []byte
	err  error
	note string
}

// speakersLoadedMsg is the constructor for [MsgSpeakersLoaded]
func speakersLoadedMsg(note string, art []byte, err error) Msg {
	return Msg{kind: MsgSpeakersLoaded, data: opResult{op: "discover", note: note, art: art, err: err}}
}

// speakerRefreshedMsg is the constructor for [MsgSpeakerRefreshed]
func speakerRefreshedMsg(art []byte, err error) Msg {
	return Msg{kind: MsgSpeakerRefreshed, data: opResult{op: "refresh", art: art, err: err}}
}

// commandSentMsg is the constructor for [MsgCommandSent]
func commandSentMsg(op string, art []byte, err error) Msg {
	return Msg{kind: MsgCommandSent, data: opResult{op: op, art: art, err: err}}
}

// volumeSetMsg is the constructor for [MsgVolumeSet]
func volumeSetMsg(err error) Msg {
	return Msg{kind: MsgVolumeSet, data: opResult{op: "volume", err: err}}
}
