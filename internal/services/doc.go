// Package services defines the speaker control capability ([Controller], [Speaker])
// and the HTTP clients behind it.
//
// # Speaker Bridge
//
// socotk does not speak UPnP itself. [BridgeService] talks to a node-sonos-http-api
// style bridge on the LAN, which owns discovery and the control protocol:
//
//	GET /zones                      zones and their member players
//	GET /{room}/state               volume, elapsed time and current track
//	GET /{room}/queue               queue in playback order
//	GET /{room}/play|pause|next|previous
//	GET /{room}/volume/{0..100}
//	GET /{room}/trackseek/{n}       one-based queue position
//
// [APIService] is the raw transport; its Get is also exposed through the CLI
// for debugging the bridge.
//
// # Album Art
//
// [ArtFetcher] is a rate-limited GET. Callers cache its results; it does not.
//
// # Error Handling
//
// Non-2xx bridge responses and malformed bodies wrap [shared.ErrAPIRequest].
// Transport failures are returned as-is. The session layer converts all of them
// to [shared.ErrSpeakerCommunication].
package services
