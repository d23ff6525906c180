package provision

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/ardnew/chanplate/log"
	"github.com/ardnew/chanplate/plan"
)

// Provisioner runs batch operations against a [Platform].
type Provisioner struct {
	platform Platform
	resolver Resolver
	perms    PermissionMap
	logger   log.Logger
	plan     []plan.Option
	batchID  func() string
}

// Option configures a [Provisioner].
type Option func(*Provisioner)

// WithResolver sets the resolver for permission targets. By default the
// platform is used when it implements [Resolver].
func WithResolver(r Resolver) Option {
	return func(p *Provisioner) { p.resolver = r }
}

// WithPermissionMap replaces [DefaultPermissionMap].
func WithPermissionMap(pm PermissionMap) Option {
	return func(p *Provisioner) { p.perms = pm }
}

// WithLogger sets the logger for batch progress and failures.
func WithLogger(logger log.Logger) Option {
	return func(p *Provisioner) { p.logger = logger }
}

// WithPlanOptions sets the options used to generate names from templates.
func WithPlanOptions(opts ...plan.Option) Option {
	return func(p *Provisioner) { p.plan = append(p.plan, opts...) }
}

// New returns a Provisioner for platform.
func New(platform Platform, opts ...Option) *Provisioner {
	p := &Provisioner{
		platform: platform,
		perms:    DefaultPermissionMap(),
		batchID:  uuid.NewString,
	}

	if r, ok := platform.(Resolver); ok {
		p.resolver = r
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// begin starts a report and a logger tagged with its batch ID.
func (p *Provisioner) begin(op Operation) (*Report, log.Logger) {
	r := &Report{Batch: p.batchID(), Operation: op}

	return r, p.logger.With(
		slog.String("batch", r.Batch),
		slog.String("op", string(op)),
	)
}

func (p *Provisioner) generate(ctx context.Context, template string, logger log.Logger) ([]string, error) {
	return plan.Generate(ctx, template, p.planOptions(logger)...)
}

func (p *Provisioner) planOptions(logger log.Logger) []plan.Option {
	return append(slices.Clip(p.plan), plan.WithLogger(logger))
}

// Preview returns the numbered preview of the names template generates.
func (p *Provisioner) Preview(ctx context.Context, template string) (plan.Preview, error) {
	names, err := p.generate(ctx, template, p.logger)
	if err != nil {
		return plan.Preview{}, err
	}

	return plan.MakePreview(names, plan.DefaultPreviewSize), nil
}

// CreateOptions configures [Provisioner.Create].
type CreateOptions struct {
	// Category is created when no category has this ID or name. Empty means
	// no category.
	Category string
	Type     ChannelType
	// Permissions is a specification for [ParsePermissions].
	Permissions string
}

// Create makes one channel per name generated by template.
//
// The returned error is non-nil only when the template is invalid, the
// category cannot be found or created, or ctx is canceled; failures of
// individual channels are recorded in the report.
func (p *Provisioner) Create(
	ctx context.Context,
	template string,
	opts CreateOptions,
) (*Report, error) {
	r, logger := p.begin(OpCreate)

	names, err := p.generate(ctx, template, logger)
	if err != nil {
		return r, err
	}

	r.Names = names

	var categoryID string

	if opts.Category != "" {
		cat, err := p.platform.Category(ctx, opts.Category)
		if errors.Is(err, ErrNotFound) {
			cat, err = p.platform.CreateCategory(ctx, opts.Category, nil)
			if err == nil {
				logger.InfoContext(ctx, "created category",
					slog.String("category", cat.Name),
					slog.String("id", cat.ID),
				)
			}
		}

		if err != nil {
			return r, err
		}

		categoryID, r.Category = cat.ID, cat.Name
	}

	var overwrites []Overwrite

	if opts.Permissions != "" {
		var skipped []string

		overwrites, skipped = ParsePermissions(ctx, opts.Permissions, p.resolver, p.perms)
		for _, entry := range skipped {
			logger.WarnContext(ctx, "ignored permission entry", slog.String("entry", entry))
		}
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return r, err
		}

		ch, err := p.platform.CreateChannel(ctx, ChannelSpec{
			Name:       name,
			Type:       opts.Type,
			CategoryID: categoryID,
			Overwrites: overwrites,
		})
		if err != nil {
			logger.WarnContext(ctx, "create channel failed",
				slog.String("name", name),
				slog.Any("error", err),
			)
			r.fail(name, err)

			continue
		}

		r.Done = append(r.Done, ch.Name)
	}

	logger.InfoContext(ctx, "create complete",
		slog.Int("created", len(r.Done)),
		slog.Int("failed", len(r.Failures)),
	)

	return r, nil
}

// Remove deletes the channels whose names template generates, looking only
// in category when it is given. With an empty template, every channel of
// category is deleted.
func (p *Provisioner) Remove(ctx context.Context, template, category string) (*Report, error) {
	r, logger := p.begin(OpRemove)

	if template == "" && category == "" {
		return r, ErrNoTarget
	}

	var categoryID string

	if category != "" {
		cat, err := p.platform.Category(ctx, category)
		if err != nil {
			return r, err
		}

		categoryID, r.Category = cat.ID, cat.Name
	}

	pool, err := p.platform.Channels(ctx, categoryID)
	if err != nil {
		return r, err
	}

	var targets []*Channel

	if template == "" {
		targets = pool

		for _, ch := range pool {
			r.Names = append(r.Names, ch.Name)
		}
	} else {
		names, err := p.generate(ctx, template, logger)
		if err != nil {
			return r, err
		}

		r.Names = names

		for _, name := range names {
			k := indexByName(pool, name)
			if k < 0 {
				logger.DebugContext(ctx, "no channel to remove", slog.String("name", name))

				continue
			}

			targets = append(targets, pool[k])
			pool = append(pool[:k:k], pool[k+1:]...)
		}
	}

	for _, ch := range targets {
		if err := ctx.Err(); err != nil {
			return r, err
		}

		if err := p.platform.DeleteChannel(ctx, ch.ID); err != nil {
			logger.WarnContext(ctx, "delete channel failed",
				slog.String("name", ch.Name),
				slog.Any("error", err),
			)
			r.fail(ch.Name, err)

			continue
		}

		r.Done = append(r.Done, ch.Name)
	}

	logger.InfoContext(ctx, "remove complete",
		slog.Int("deleted", len(r.Done)),
		slog.Int("failed", len(r.Failures)),
	)

	return r, nil
}

func indexByName(chs []*Channel, name string) int {
	for k, ch := range chs {
		if ch.Name == name {
			return k
		}
	}

	return -1
}

// Clone copies the source category, its overwrites and its channels into
// new categories named by target. Target may embed one bracketed template,
// as in "Week [1...3] archive", producing one category per generated name.
func (p *Provisioner) Clone(ctx context.Context, source, target string) (*Report, error) {
	r, logger := p.begin(OpClone)

	src, err := p.platform.Category(ctx, source)
	if err != nil {
		return r, err
	}

	r.Category = src.Name

	names, err := plan.GenerateAffixed(ctx, target, p.planOptions(logger)...)
	if err != nil {
		return r, err
	}

	r.Names = names

	channels, err := p.platform.Channels(ctx, src.ID)
	if err != nil {
		return r, err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return r, err
		}

		cat, err := p.platform.CreateCategory(ctx, name, src.Overwrites)
		if err != nil {
			logger.WarnContext(ctx, "create category failed",
				slog.String("name", name),
				slog.Any("error", err),
			)
			r.fail(name, err)

			continue
		}

		count := 0

		for _, ch := range channels {
			_, err := p.platform.CreateChannel(ctx, ChannelSpec{
				Name:       ch.Name,
				Type:       ch.Type,
				CategoryID: cat.ID,
				Overwrites: ch.Overwrites,
			})
			if err != nil {
				logger.WarnContext(ctx, "clone channel failed",
					slog.String("category", name),
					slog.String("name", ch.Name),
					slog.Any("error", err),
				)
				r.fail(name+"/"+ch.Name, err)

				continue
			}

			count++
		}

		r.Done = append(r.Done, name)
		r.Clones = append(r.Clones, CloneResult{Name: name, Channels: count})
	}

	logger.InfoContext(ctx, "clone complete",
		slog.Int("categories", len(r.Done)),
		slog.Int("failed", len(r.Failures)),
	)

	return r, nil
}
