package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/socotk/internal/shared"
	"golang.org/x/time/rate"
)

var _ Fetcher = (*ArtFetcher)(nil)

// ArtFetcher downloads album art with a plain GET, throttled so that fast
// track skipping doesn't hammer the speaker's image endpoint.
type ArtFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewArtFetcher creates an [ArtFetcher]. A nil client gets a client with the
// given timeout (default 30s); a non-positive ratePerSec defaults to 2/s.
func NewArtFetcher(client *http.Client, ratePerSec float64, timeout time.Duration) *ArtFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if ratePerSec <= 0 {
		ratePerSec = 2
	}
	return &ArtFetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
}

// Fetch downloads the image at url and returns the raw bytes.
func (f *ArtFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty album art URL", shared.ErrInvalidArgument)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("album art download cancelled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: failed to download image: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}
