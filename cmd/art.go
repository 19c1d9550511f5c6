package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/socotk/internal/shared"
	"github.com/urfave/cli/v3"
)

type artStats struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
	Bytes int64  `json:"bytes"`
}

// ArtStats reports how many album art images are cached and their total size.
func (r *Runner) ArtStats(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store()
	if err != nil {
		return err
	}

	count, size, err := store.AlbumArtStats()
	if err != nil {
		return err
	}

	stats := artStats{Path: store.Path(), Count: count, Bytes: size}
	if cmd.Bool("json") {
		return r.writeJSON(stats, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Album Art Cache")
	r.writePlain("Store:  %s\n", stats.Path)
	r.writePlain("Images: %d\n", stats.Count)
	return r.writePlain("Size:   %d bytes\n", stats.Bytes)
}

// ArtGet writes the cached image for a track URI. A miss is ErrNotFound.
func (r *Runner) ArtGet(ctx context.Context, cmd *cli.Command) error {
	uri := cmd.StringArg("uri")
	if uri == "" {
		return fmt.Errorf("%w: track uri is required", shared.ErrMissingArgument)
	}

	store, err := r.Store()
	if err != nil {
		return err
	}

	image, ok, err := store.GetAlbumArt(uri)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no cached art for %q", shared.ErrNotFound, uri)
	}

	return r.writeImage(image, cmd.String("output"))
}

// ArtFetch loads the selected speaker's current album art through the cache.
func (r *Runner) ArtFetch(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.SelectedSession(ctx)
	if err != nil {
		return err
	}

	if _, err := sess.RefreshNowPlaying(ctx); err != nil {
		return err
	}

	image, err := sess.AlbumArt(ctx)
	if err != nil {
		return err
	}
	if image == nil {
		return fmt.Errorf("%w: current track has no album art", shared.ErrNotFound)
	}

	return r.writeImage(image, cmd.String("output"))
}

func (r *Runner) writeImage(image []byte, path string) error {
	if path == "" {
		if _, err := r.output.Write(image); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, image, 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	r.logger.Info("album art saved", "path", path, "bytes", len(image))
	return r.writePlain("✓ Saved %d bytes to %s\n", len(image), path)
}
