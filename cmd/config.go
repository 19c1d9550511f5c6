package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/socotk/internal/models"
	"github.com/desertthunder/socotk/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/urfave/cli/v3"
)

// ConfigGet prints a single setting. Unset and missing names print nothing and
// return ErrNotFound.
func (r *Runner) ConfigGet(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: setting name is required", shared.ErrMissingArgument)
	}

	store, err := r.Store()
	if err != nil {
		return err
	}

	value, ok, err := store.GetConfig(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: setting %q is not set", shared.ErrNotFound, name)
	}
	return r.writePlain("%s\n", value)
}

// ConfigSet creates or replaces a setting.
func (r *Runner) ConfigSet(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: setting name is required", shared.ErrMissingArgument)
	}

	store, err := r.Store()
	if err != nil {
		return err
	}

	value := cmd.StringArg("value")
	if err := store.SetConfig(name, value); err != nil {
		return err
	}
	r.logger.Info("setting saved", "name", name)
	return r.writePlain("✓ %s = %s\n", name, value)
}

// ConfigUnset clears a setting.
func (r *Runner) ConfigUnset(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: setting name is required", shared.ErrMissingArgument)
	}

	store, err := r.Store()
	if err != nil {
		return err
	}

	if err := store.UnsetConfig(name); err != nil {
		return err
	}
	return r.writePlain("✓ %s unset\n", name)
}

// ConfigList prints every setting that has a value.
func (r *Runner) ConfigList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store()
	if err != nil {
		return err
	}

	entries, err := store.ListConfig()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		return r.writePlain("No settings stored\n")
	}

	r.writeTable(table.Row{"Name", "Value"}, lo.Map(entries, func(e models.ConfigEntry, _ int) table.Row {
		return table.Row{e.Name, e.Value}
	}))
	return nil
}
