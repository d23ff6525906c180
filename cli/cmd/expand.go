package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"slices"

	"github.com/goccy/go-yaml"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/chanplate/log"
	"github.com/ardnew/chanplate/plan"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Expand prints every name generated by one or more templates.
type Expand struct {
	Templates []string `arg:""                                  help:"Templates to expand, e.g. '[Room, 1...5]' or '[Room, 1...10, if i % 2 == 0]'" name:"template" optional:""`
	File      []string `                                        help:"Read templates from file(s), one per line, or '-' for stdin"                                   short:"f"`
	Format    string   `default:"text" enum:"text,json,yaml"   help:"Output format (${enum})"                                                                         short:"o"`
	Limit     int      `default:"10000"                         help:"Maximum names per template (0 for no limit)"                                                    short:"n"`
	Cache     bool     `default:"true"                          help:"Cache classified templates"                                                                                negatable:""`
	Jobs      int      `default:"0"                             help:"Templates expanded concurrently (0 for one per CPU)"                                             short:"j"`
}

// Expansion is the result of expanding one template.
type Expansion struct {
	Template string   `json:"template" yaml:"template"`
	Names    []string `json:"names"    yaml:"names"`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	templates, err := e.templates(ctx)
	if err != nil {
		return err
	}

	if len(templates) == 0 {
		return ErrNoTemplates
	}

	out := make([]Expansion, len(templates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs())

	for k, t := range templates {
		g.Go(func() error {
			names, err := plan.Generate(gctx, t, e.options()...)
			if err != nil {
				return ErrGenerate.With(slog.String("template", t)).Wrap(err)
			}

			if names == nil {
				names = []string{}
			}

			out[k] = Expansion{Template: t, Names: names}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.DebugContext(ctx, "expanded templates",
		slog.Int("templates", len(out)),
		slog.String("format", e.Format),
	)

	return writeExpansions(outputFrom(ctx), e.Format, out)
}

// jobs returns the number of templates expanded at once.
func (e *Expand) jobs() int {
	if e.Jobs > 0 {
		return e.Jobs
	}

	return runtime.GOMAXPROCS(0)
}

func (e *Expand) options() []plan.Option {
	return []plan.Option{
		plan.WithLimit(e.Limit),
		plan.WithCache(e.Cache),
		plan.WithLogger(log.Default()),
	}
}

// templates returns the positional templates followed by those read from
// the --file sources.
func (e *Expand) templates(ctx context.Context) ([]string, error) {
	templates := slices.Clone(e.Templates)

	src := NewSourceFiles(e.File)
	if src == nil {
		if len(e.File) > 0 {
			return nil, ErrReadTemplates.With(slog.Any("files", e.File))
		}

		return templates, nil
	}

	for t, err := range src.Templates(ctx) {
		if err != nil {
			return nil, err
		}

		templates = append(templates, t)
	}

	return templates, nil
}

func writeExpansions(w io.Writer, format string, out []Expansion) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(out); err != nil {
			return ErrMarshal.With(slog.String("format", format)).Wrap(err)
		}

		return nil

	case FormatYAML:
		data, err := yaml.Marshal(out)
		if err != nil {
			return ErrMarshal.With(slog.String("format", format)).Wrap(err)
		}

		_, err = w.Write(data)

		return err

	default:
		bw := bufio.NewWriter(w)

		for _, x := range out {
			for _, name := range x.Names {
				_, _ = bw.WriteString(name)
				_ = bw.WriteByte('\n')
			}
		}

		return bw.Flush()
	}
}
