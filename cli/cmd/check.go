package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/chanplate/filter"
	"github.com/ardnew/chanplate/pattern"
)

// Check reports how each template is classified without expanding it.
type Check struct {
	Templates []string `arg:"" help:"Templates to classify" name:"template"`
}

// Run executes the check command. Every template is reported; the returned
// error joins the failures of all invalid templates.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	w := outputFrom(ctx)

	var errs []error

	for _, t := range c.Templates {
		line, err := classify(t)
		if err != nil {
			errs = append(errs, ErrGenerate.With(slog.String("template", t)).Wrap(err))
			line = "error: " + err.Error()
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\n", t, line); err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}

// classify describes template the way the pipeline will see it: the pattern
// of its base template and, if present, its compiled predicate.
func classify(template string) (string, error) {
	base, predicate, filtered := filter.Extract(template)

	p, err := pattern.Parse(base)
	if err != nil {
		return "", err
	}

	if !filtered {
		return p.String(), nil
	}

	pred, err := filter.Compile(predicate)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s filter=%q", p, pred), nil
}
