package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/chanplate/log"
	"github.com/ardnew/chanplate/plan"
	"github.com/ardnew/chanplate/provision"
)

// Plan applies templates to a server state kept in a local file.
//
// Without --write the state file is left untouched and the report shows what
// would change.
type Plan struct {
	Create PlanCreate `cmd:"" help:"Create one channel per generated name"`
	Remove PlanRemove `cmd:"" help:"Delete channels matching a template or a whole category"`
	Clone  PlanClone  `cmd:"" help:"Copy a category with its channels and permissions"`
}

// stateFlags are the options shared by every plan subcommand.
type stateFlags struct {
	State  string `default:"${state}"                   help:"Server state file (.yaml or .json)"       type:"path"`
	Write  bool   `                                     help:"Save the resulting state"                             short:"w"`
	Format string `default:"text" enum:"text,json,yaml" help:"Report format (${enum})"                              short:"o"`
	Limit  int    `default:"10000"                      help:"Maximum names per template (0 for no limit)"          short:"n"`
}

// open loads the state file into an in-memory platform and returns a
// provisioner bound to it.
func (f *stateFlags) open(ctx context.Context) (*provision.Memory, *provision.Provisioner, error) {
	state, err := provision.LoadState(f.State)
	if err != nil {
		return nil, nil, ErrLoadState.With(slog.String("file", f.State)).Wrap(err)
	}

	log.DebugContext(ctx, "loaded server state",
		slog.String("file", f.State),
		slog.Int("categories", len(state.Categories)),
		slog.Int("channels", len(state.Channels)),
	)

	mem := provision.NewMemory(state)

	return mem, provision.New(mem,
		provision.WithLogger(log.Default()),
		provision.WithPlanOptions(plan.WithLimit(f.Limit), plan.WithCache(true)),
	), nil
}

// finish prints the report and, with --write, saves the platform state.
func (f *stateFlags) finish(
	ctx context.Context,
	mem *provision.Memory,
	r *provision.Report,
) error {
	if err := writeReport(outputFrom(ctx), f.Format, r); err != nil {
		return err
	}

	if !f.Write {
		log.DebugContext(ctx, "state not saved (use --write)",
			slog.String("file", f.State),
		)

		return nil
	}

	if err := mem.Snapshot().Save(f.State); err != nil {
		return ErrSaveState.With(slog.String("file", f.State)).Wrap(err)
	}

	log.InfoContext(ctx, "saved server state",
		slog.String("file", f.State),
		slog.String("batch", r.Batch),
	)

	return nil
}

func writeReport(w io.Writer, format string, r *provision.Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(r); err != nil {
			return ErrMarshal.With(slog.String("format", format)).Wrap(err)
		}

		return nil

	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return ErrMarshal.With(slog.String("format", format)).Wrap(err)
		}

		_, err = w.Write(data)

		return err

	default:
		_, err := fmt.Fprintln(w, r)

		return err
	}
}

// PlanCreate creates channels.
type PlanCreate struct {
	Flags stateFlags `embed:""`

	Template    string                `arg:""                                 help:"Channel name template"                     name:"template"`
	Category    string                `                                       help:"Category ID or name, created if missing"             short:"c"`
	Type        provision.ChannelType `default:"text"                         help:"Channel type: text, voice, forum, announcement or stage" short:"t"`
	Permissions string                `                                       help:"Permission overwrites, e.g. '@mods:manage, 1234:view'" short:"p" name:"perms"`
}

// Run executes the plan create command.
func (c *PlanCreate) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	mem, prov, err := c.Flags.open(ctx)
	if err != nil {
		return err
	}

	r, err := prov.Create(ctx, c.Template, provision.CreateOptions{
		Category:    c.Category,
		Type:        c.Type,
		Permissions: c.Permissions,
	})
	if err != nil {
		return ErrGenerate.With(slog.String("template", c.Template)).Wrap(err)
	}

	return c.Flags.finish(ctx, mem, r)
}

// PlanRemove deletes channels.
type PlanRemove struct {
	Flags stateFlags `embed:""`

	Template string `arg:"" help:"Template of channel names to delete" name:"template" optional:""`
	Category string `       help:"Category ID or name to search"                        short:"c"`
}

// Run executes the plan remove command.
func (c *PlanRemove) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	mem, prov, err := c.Flags.open(ctx)
	if err != nil {
		return err
	}

	r, err := prov.Remove(ctx, c.Template, c.Category)
	if err != nil {
		return ErrGenerate.
			With(slog.String("template", c.Template), slog.String("category", c.Category)).
			Wrap(err)
	}

	return c.Flags.finish(ctx, mem, r)
}

// PlanClone copies a category.
type PlanClone struct {
	Flags stateFlags `embed:""`

	Source string `arg:"" help:"Category ID or name to copy"                           name:"source"`
	Target string `arg:"" help:"New category name, optionally with one bracketed template" name:"target"`
}

// Run executes the plan clone command.
func (c *PlanClone) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	mem, prov, err := c.Flags.open(ctx)
	if err != nil {
		return err
	}

	r, err := prov.Clone(ctx, c.Source, c.Target)
	if err != nil {
		return ErrGenerate.
			With(slog.String("source", c.Source), slog.String("target", c.Target)).
			Wrap(err)
	}

	return c.Flags.finish(ctx, mem, r)
}
