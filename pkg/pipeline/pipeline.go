// Package pipeline applies one reactor at many match sites of a host molecule.
//
// A substructure search usually yields several mappings of the same pattern onto
// one host. The Runner applies the reactor at every site concurrently, with a
// bounded number of workers, and collects the products in site order.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	res, err := runner.Run(ctx, r, host, mappings, pipeline.Options{
//	    Workers: 8,
//	    OnError: pipeline.Skip,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, site := range res.Sites {
//	    if site.Applied() {
//	        fmt.Println(site.Index, site.Product.Added)
//	    }
//	}
//
// The host is shared between workers and is never modified.
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/core/reactor"
	"github.com/matzehuels/molpatch/pkg/errors"
)

// DefaultWorkers is the number of sites applied concurrently when
// Options.Workers is zero.
const DefaultWorkers = 4

// =============================================================================
// Error Policy
// =============================================================================

// ErrorPolicy decides what happens when a site fails.
type ErrorPolicy int

const (
	// Skip records the error on the site and continues with the others.
	Skip ErrorPolicy = iota

	// Abort cancels the remaining sites and returns the first error.
	Abort
)

// String returns the policy name.
func (p ErrorPolicy) String() string {
	switch p {
	case Skip:
		return "skip"
	case Abort:
		return "abort"
	}
	return "unknown"
}

// ParseErrorPolicy parses the output of [ErrorPolicy.String].
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "skip":
		return Skip, nil
	case "abort":
		return Abort, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid error policy %q (must be one of: skip, abort)", s)
}

// =============================================================================
// Options
// =============================================================================

// Options configures a batch run.
type Options struct {
	Workers int
	OnError ErrorPolicy

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.OnError != Skip && o.OnError != Abort {
		return errors.New(errors.ErrCodeInvalidInput, "invalid error policy %d", int(o.OnError))
	}
	o.validated = true
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Applier applies a patch at one site. *reactor.Reactor implements it.
type Applier interface {
	ApplyContext(ctx context.Context, host *mol.Graph, mapping reactor.Mapping) (*reactor.Product, error)
}

// Site is the outcome at one match site.
type Site struct {
	Index    int
	Mapping  reactor.Mapping
	Product  *reactor.Product // nil when Err is set
	Err      error
	Duration time.Duration
}

// Applied reports whether the site produced a product.
func (s Site) Applied() bool { return s.Product != nil }

// Result holds every site of a run in input order.
type Result struct {
	RunID string
	Sites []Site
	Stats Stats
}

// Products returns the products of applied sites in site order.
func (r *Result) Products() []*reactor.Product {
	out := make([]*reactor.Product, 0, r.Stats.Applied)
	for _, s := range r.Sites {
		if s.Applied() {
			out = append(out, s.Product)
		}
	}
	return out
}

// Stats contains batch execution statistics.
type Stats struct {
	Applied  int
	Skipped  int
	Duration time.Duration
}
