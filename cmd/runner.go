package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/socotk/internal/repositories"
	"github.com/desertthunder/socotk/internal/services"
	"github.com/desertthunder/socotk/internal/session"
	"github.com/desertthunder/socotk/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store is opened on first use and closed by [Runner.Close].
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	controller services.Controller
	fetcher    services.Fetcher
	logger     *log.Logger
	output     io.Writer
	store      *repositories.Store

	ownsController bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Controller services.Controller
	Fetcher    services.Fetcher
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// Missing services are built from the config: the bridge client from bridge.url and
// the album art fetcher from the art section.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.API == nil {
		client := &http.Client{Timeout: opts.Config.Bridge.Timeout()}
		opts.API = services.NewAPIService(opts.Config.Bridge.URL, client)
	}
	owns := opts.Controller == nil
	if owns {
		opts.Controller = services.NewBridgeService(opts.API, shared.WithLogger(opts.Logger, "component", "bridge"))
	}
	if opts.Fetcher == nil {
		opts.Fetcher = services.NewArtFetcher(nil, opts.Config.Art.RateLimit, time.Duration(opts.Config.Art.TimeoutSeconds)*time.Second)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		controller: opts.Controller,
		fetcher:    opts.Fetcher,
		logger:     opts.Logger,
		output:     opts.Output,

		ownsController: owns,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, configCommand, artCommand, speakersCommand, nowCommand, queueCommand,
		playCommand, pauseCommand, nextCommand, previousCommand, volumeCommand, playIndexCommand,
		bridgeCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and anything it creates afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.ownsController {
		r.controller = services.NewBridgeService(r.api, shared.WithLogger(l, "component", "bridge"))
	}
}

// Store opens the persistence store at the configured data path on first use.
func (r *Runner) Store() (*repositories.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	path := r.config.Data.DatabasePath()
	store, err := repositories.Initialize(path, shared.WithLogger(r.logger, "component", "store"))
	if err != nil {
		return nil, err
	}
	r.store = store
	return store, nil
}

// Close releases the store if it was opened.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	return err
}

// Session opens the store, discovers speakers and restores the last selection.
func (r *Runner) Session(ctx context.Context) (*session.Session, error) {
	store, err := r.Store()
	if err != nil {
		return nil, err
	}

	sess := session.New(store, r.controller, r.fetcher, r.logger)
	if err := sess.Discover(ctx); err != nil {
		return nil, err
	}

	if _, err := sess.RestoreSelection(); err != nil {
		return nil, err
	}
	return sess, nil
}

// SelectedSession is [Runner.Session] for commands that need a selected speaker.
func (r *Runner) SelectedSession(ctx context.Context) (*session.Session, error) {
	sess, err := r.Session(ctx)
	if err != nil {
		return nil, err
	}
	if sess.State() != session.SpeakerSelected {
		return nil, fmt.Errorf("%w: run 'socotk speakers select <uid>' first", shared.ErrNoSelection)
	}
	return sess, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeTable renders rows under header as a light box-drawn table.
func (r *Runner) writeTable(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(r.output)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}

// isUsageError reports errors caused by bad input rather than a failure.
func isUsageError(err error) bool {
	return errors.Is(err, shared.ErrMissingArgument) ||
		errors.Is(err, shared.ErrInvalidArgument) ||
		errors.Is(err, shared.ErrValidation) ||
		errors.Is(err, shared.ErrNoSelection)
}
