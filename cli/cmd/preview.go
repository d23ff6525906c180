package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/chanplate/log"
	"github.com/ardnew/chanplate/plan"
)

// Preview prints the first names of a template, numbered from 1.
type Preview struct {
	Template string `arg:""                                    help:"Template to preview" name:"template"`
	Size     int    `default:"25"                              help:"Number of names to show"            short:"s"`
	Limit    int    `default:"10000"                           help:"Maximum names to generate (0 for no limit)" short:"n"`
}

// Run executes the preview command.
func (p *Preview) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	names, err := plan.Generate(ctx, p.Template,
		plan.WithLimit(p.Limit),
		plan.WithCache(true),
		plan.WithLogger(log.Default()),
	)
	if err != nil {
		return ErrGenerate.With(slog.String("template", p.Template)).Wrap(err)
	}

	_, err = fmt.Fprintln(outputFrom(ctx), plan.MakePreview(names, p.Size))

	return err
}
