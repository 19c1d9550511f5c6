// Package session models the speaker browser's session: the known speakers,
// the selected speaker, its queue and the last now-playing info.
//
// # States
//
// A [Session] is always in one of three states, derived from its fields:
//
//  1. [NoSpeakers] : nothing discovered yet, or the last discovery came back empty
//  2. [SpeakersKnown] : speakers are listed but none is selected
//  3. [SpeakerSelected] : exactly one speaker is selected
//
// Selecting a speaker persists its uid under last_selected so the next run can
// [Session.RestoreSelection]. Queue and now-playing info belong to the selected
// speaker and are cleared whenever the selection changes.
//
// # Speaker Operations
//
// Every operation that talks to a speaker fails with [shared.ErrNoSelection]
// before any network call when nothing is selected. Network failures wrap
// [shared.ErrSpeakerCommunication] and leave the previous state in place.
// Nothing is retried.
//
// # Album Art
//
// [Session.AlbumArt] looks up the now-playing track URI in the store's image
// cache and downloads on a miss. Writes to the cache are best-effort.
package session
