package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/session"
	"github.com/desertthunder/socotk/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

type speakerRow struct {
	models.SpeakerInfo
	Selected bool `json:"selected"`
}

type nowPlayingOutput struct {
	Speaker models.SpeakerInfo `json:"speaker"`
	Track   *models.TrackInfo  `json:"track"`
	Volume  int                `json:"volume"`
}

// SpeakersList discovers speakers and marks the remembered selection.
func (r *Runner) SpeakersList(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.Session(ctx)
	if err != nil {
		return err
	}

	selected, hasSelected := sess.Selected()
	rows := lo.Map(sess.Speakers(), func(info models.SpeakerInfo, _ int) speakerRow {
		return speakerRow{SpeakerInfo: info, Selected: hasSelected && info.UID == selected.UID}
	})

	if cmd.Bool("json") {
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if len(rows) == 0 {
		return r.writePlain("No speakers found\n")
	}

	r.writeTable(table.Row{"", "UID", "Name", "IP"}, lo.Map(rows, func(row speakerRow, _ int) table.Row {
		marker := ""
		if row.Selected {
			marker = "●"
		}
		return table.Row{marker, row.UID, models.DisplayName(row.SpeakerInfo), row.IP}
	}))
	return nil
}

// SpeakersSelect selects a speaker by uid and remembers it for later runs.
func (r *Runner) SpeakersSelect(ctx context.Context, cmd *cli.Command) error {
	uid := cmd.StringArg("uid")
	if uid == "" {
		return fmt.Errorf("%w: speaker uid is required", shared.ErrMissingArgument)
	}

	sess, err := r.Session(ctx)
	if err != nil {
		return err
	}

	if err := sess.SelectSpeaker(uid); err != nil {
		return err
	}

	info, _ := sess.Selected()
	return r.writePlain("✓ Selected %s\n", models.DisplayName(info))
}

// SpeakersClear forgets the remembered selection without contacting the bridge.
func (r *Runner) SpeakersClear(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store()
	if err != nil {
		return err
	}

	if err := session.New(store, r.controller, r.fetcher, r.logger).ClearSelection(); err != nil {
		return err
	}
	return r.writePlain("✓ Selection cleared\n")
}

// NowPlaying prints the selected speaker's current track and volume.
func (r *Runner) NowPlaying(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.SelectedSession(ctx)
	if err != nil {
		return err
	}

	track, err := sess.RefreshNowPlaying(ctx)
	if err != nil {
		return err
	}

	info, _ := sess.Selected()
	if cmd.Bool("json") {
		return r.writeJSON(nowPlayingOutput{Speaker: info, Track: track, Volume: sess.Volume()}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(models.DisplayName(info))
	r.writeTrack(track)
	return r.writePlain("Volume: %d\n", sess.Volume())
}

func (r *Runner) writeTrack(track *models.TrackInfo) {
	if track == nil || track.Title == "" {
		r.writePlain("Nothing playing\n")
		return
	}

	r.writePlain("%s - %s\n", track.Artist, track.Title)
	if track.Album != "" {
		r.writePlain("Album: %s\n", track.Album)
	}
	if track.Duration > 0 {
		r.writePlain("Position: %s / %s\n", shared.FormatDuration(track.Position), shared.FormatDuration(track.Duration))
	}
}

// Transport returns the action that sends command to the selected speaker.
func (r *Runner) Transport(command session.Command) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		sess, err := r.SelectedSession(ctx)
		if err != nil {
			return err
		}

		track, err := sess.IssueTransportCommand(ctx, command)
		if err != nil {
			return err
		}

		r.logger.Debug("transport command sent", "command", command)
		r.writePlain("✓ %s\n", command)
		r.writeTrack(track)
		return nil
	}
}

// Volume prints the selected speaker's volume, or sets it when a level is given.
func (r *Runner) Volume(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("level")

	sess, err := r.SelectedSession(ctx)
	if err != nil {
		return err
	}

	if arg == "" {
		if _, err := sess.RefreshNowPlaying(ctx); err != nil {
			return err
		}
		return r.writePlain("Volume: %d\n", sess.Volume())
	}

	level, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("%w: volume must be a number, got %q", shared.ErrInvalidArgument, arg)
	}

	if err := sess.SetVolume(ctx, level); err != nil {
		return err
	}
	return r.writePlain("✓ Volume set to %d\n", sess.Volume())
}

// PlayIndex starts playback from the nth queue item, counting from 1.
func (r *Runner) PlayIndex(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("n")
	if arg == "" {
		return fmt.Errorf("%w: queue position is required", shared.ErrMissingArgument)
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return fmt.Errorf("%w: queue position must be a positive number, got %q", shared.ErrInvalidArgument, arg)
	}

	sess, err := r.SelectedSession(ctx)
	if err != nil {
		return err
	}

	if _, err := sess.RefreshQueue(ctx); err != nil {
		return err
	}

	track, err := sess.PlayFromQueue(ctx, n-1)
	if err != nil {
		return err
	}

	r.writePlain("✓ Playing item %d\n", n)
	r.writeTrack(track)
	return nil
}
