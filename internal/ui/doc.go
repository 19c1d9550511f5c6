// Package ui implements an interactive terminal speaker browser using bubbletea's Elm architecture.
//
// The screen has three parts:
//  1. Speakers pane : discovered speakers; enter selects one
//  2. Now playing : title, artist, album, position and volume of the selected speaker
//  3. Queue pane : the selected speaker's queue; enter plays the highlighted item
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every [session.Session] call runs as a [tea.Cmd]; while one is in flight the model is busy and
// further commands are refused, so the session never sees concurrent calls. The view renders
// from a snapshot taken when a call completes.
//
// On quit the pane split and terminal size are saved through [session.Session.SaveLayout].
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
