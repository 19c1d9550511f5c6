// Package models defines the domain types shared by the store, the session and the shells.
//
// Persisted rows:
//   - [ConfigEntry] : a named setting (window layout, last selected speaker)
//   - [AlbumArtEntry] : an album art blob keyed by track URI
//
// Speaker data reported by the control bridge:
//   - [SpeakerInfo] : uid, name and address of a speaker
//   - [TrackInfo] : now-playing metadata
//   - [QueueItem] : one entry of the ordered playback queue
//
// [DisplayName] and the sash helpers are pure formatting functions used by the shells.
package models
