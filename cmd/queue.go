package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/socotk/internal/formatter"
	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

// Queue prints or exports the selected speaker's queue, marking the playing item.
//
// A failed now-playing refresh is logged and the queue is shown without a marker.
func (r *Runner) Queue(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	output := cmd.String("output")

	switch format {
	case "table", "text", "markdown", "md", "csv", "json":
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	sess, err := r.SelectedSession(ctx)
	if err != nil {
		return err
	}

	if _, err := sess.RefreshNowPlaying(ctx); err != nil {
		r.logger.Warn("failed to refresh now playing", "error", err)
	}

	items, err := sess.RefreshQueue(ctx)
	if err != nil {
		return err
	}

	info, _ := sess.Selected()
	export := formatter.NewQueueExport(info, items, sess.NowPlaying())

	switch format {
	case "table":
		r.writeQueueTable(export)
		return nil
	case "text":
		if output != "" {
			path, err := formatter.WriteTextExport(export, output)
			if err != nil {
				return err
			}
			return r.writePlain("✓ Queue written to %s\n", path)
		}
		data, err := formatter.ExportToText(export)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "markdown", "md":
		if output != "" {
			cover, err := sess.AlbumArt(ctx)
			if err != nil {
				r.logger.Warn("album art unavailable", "error", err)
			}
			result, err := formatter.WriteMarkdownExport(export, output, cover)
			if err != nil {
				return err
			}
			return r.writePlain("✓ Queue written to %s (%d files)\n", result.Directory, len(result.Files))
		}
		data, err := formatter.ExportToMarkdown(export, "")
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "csv":
		if output != "" {
			path, err := formatter.WriteCSVExport(export, output)
			if err != nil {
				return err
			}
			return r.writePlain("✓ Queue written to %s\n", path)
		}
		data, err := formatter.ExportToCSV(export)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	default:
		data, err := formatter.ExportToJSON(export)
		if err != nil {
			return err
		}
		if output != "" {
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write JSON file: %w", err)
			}
			return r.writePlain("✓ Queue written to %s\n", output)
		}
		return r.writePlain("%s\n", data)
	}
}

func (r *Runner) writeQueueTable(export *formatter.QueueExport) {
	if len(export.Items) == 0 {
		r.writePlain("Queue is empty\n")
		return
	}

	r.writeTable(table.Row{"", "#", "Creator", "Title"}, lo.Map(export.Items, func(item models.QueueItem, i int) table.Row {
		marker := ""
		if i == export.Playing {
			marker = "▶"
		}
		return table.Row{marker, i + 1, item.Creator, item.Title}
	}))
}
