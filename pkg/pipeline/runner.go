package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/errors"
	"github.com/matzehuels/molpatch/pkg/observability"
)

// Runner applies reactors at batches of match sites.
//
// The Runner is stateless except for its logger. Multiple goroutines can safely
// use the same Runner.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Run applies a at every mapping against host.
//
// Under Skip the error of a failed site is recorded on it and Run returns a nil
// error. Under Abort the first failure cancels the remaining sites and is
// returned. When ctx is canceled no further sites are scheduled and ctx.Err()
// is returned. The result is returned in every case and lists all sites;
// unscheduled ones carry the cancellation error.
func (r *Runner) Run(ctx context.Context, a Applier, host *mol.Graph, mappings []map[int]int, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if a == nil || host == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "reactor and host are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	res := &Result{
		RunID: uuid.NewString(),
		Sites: make([]Site, len(mappings)),
	}
	for i, m := range mappings {
		res.Sites[i] = Site{Index: i, Mapping: m}
	}

	hooks := observability.Batch()
	hooks.OnBatchStart(ctx, res.RunID, len(mappings))
	logger.Info("batch started", "run", res.RunID, "sites", len(mappings), "workers", opts.Workers)
	start := time.Now()

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for i := range res.Sites {
		if egctx.Err() != nil {
			break
		}
		site := &res.Sites[i]
		eg.Go(func() error {
			return r.applySite(egctx, logger, a, host, site, opts.OnError)
		})
	}
	err := eg.Wait()
	if err == nil {
		err = ctx.Err()
	}

	for i := range res.Sites {
		s := &res.Sites[i]
		switch {
		case s.Applied():
			res.Stats.Applied++
		case s.Err == nil:
			s.Err = context.Cause(egctx)
			res.Stats.Skipped++
		default:
			res.Stats.Skipped++
		}
	}
	res.Stats.Duration = time.Since(start)

	hooks.OnBatchComplete(ctx, res.RunID, res.Stats.Applied, res.Stats.Skipped, res.Stats.Duration, err)
	logger.Info("batch finished",
		"run", res.RunID,
		"applied", res.Stats.Applied,
		"skipped", res.Stats.Skipped,
		"duration", res.Stats.Duration)

	return res, err
}

// applySite fills in site. It only returns an error under Abort.
func (r *Runner) applySite(ctx context.Context, logger *log.Logger, a Applier, host *mol.Graph, site *Site, policy ErrorPolicy) error {
	start := time.Now()
	p, err := a.ApplyContext(ctx, host, site.Mapping)
	site.Duration = time.Since(start)
	if err != nil {
		site.Err = err
		if policy == Abort {
			return fmt.Errorf("site %d: %w", site.Index, err)
		}
		logger.Warn("site skipped", "site", site.Index, "error", errors.UserMessage(err))
		return nil
	}
	site.Product = p
	logger.Debug("site applied",
		"site", site.Index,
		"atoms", p.Graph.AtomCount(),
		"duration", site.Duration)
	return nil
}
