package services

import (
	"context"

	"github.com/desertthunder/socotk/internal/models"
)

// Controller finds speakers on the network.
type Controller interface {
	// Discover returns the speakers currently reachable. An empty result is not an error.
	Discover(ctx context.Context) ([]Speaker, error)
}

// Speaker is a handle to one discovered speaker. Info is known at discovery
// time; every other method is a blocking network call.
type Speaker interface {
	Info() models.SpeakerInfo

	// CurrentTrack returns now-playing metadata.
	CurrentTrack(ctx context.Context) (*models.TrackInfo, error)

	// Volume returns the current volume, 0..100.
	Volume(ctx context.Context) (int, error)
	SetVolume(ctx context.Context, level int) error

	// Queue returns the playback queue in playback order.
	Queue(ctx context.Context) ([]models.QueueItem, error)

	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error

	// PlayFromQueue starts playback at the zero-based queue index.
	PlayFromQueue(ctx context.Context, index int) error
}

// Fetcher downloads album art.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
