package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/chanplate/cli/cmd/repl"
	"github.com/ardnew/chanplate/log"
	"github.com/ardnew/chanplate/plan"
)

// Repl starts the interactive template previewer.
type Repl struct {
	Rows    int  `default:"10"    help:"Number of names in the live preview"                 short:"r"`
	Limit   int  `default:"10000" help:"Maximum names per template (0 for no limit)"         short:"n"`
	History bool `default:"true"  help:"Persist input history in the cache directory"                 negatable:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var path string

	if ktx := kongContextFrom(ctx); ktx != nil && r.History {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			path = filepath.Join(dir, repl.HistoryFile)
		}
	}

	return repl.Run(ctx, repl.Config{
		HistoryPath: path,
		Rows:        r.Rows,
		Plan:        []plan.Option{plan.WithLimit(r.Limit), plan.WithCache(true)},
		Logger:      log.Default(),
	})
}
