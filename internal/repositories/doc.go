// Package repositories implements the local SQLite store for settings and album art.
//
// Key Implementations:
//   - [ConfigRepository] : upsert/lookup of named settings in the config table
//   - [AlbumArtRepository] : album art blobs in the images table, keyed by track URI
//   - [Store] : the process-wide handle that owns the single connection and composes both repositories
//
// The store keeps one long-lived connection. Every operation commits on its own;
// nothing spans more than one statement. None of the types here lock: callers
// serialize access (the CLI runs one command at a time, the TUI dispatches one
// command at a time).
//
// Error policy: settings errors surface wrapped in [shared.ErrStore]; album art
// writes are a best-effort cache and are logged, never returned.
package repositories
