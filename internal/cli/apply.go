package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molpatch/pkg/core/reactor"
	"github.com/matzehuels/molpatch/pkg/graph"
	"github.com/matzehuels/molpatch/pkg/observability"
	"github.com/matzehuels/molpatch/pkg/observability/metrics"
	"github.com/matzehuels/molpatch/pkg/pipeline"
	"github.com/matzehuels/molpatch/pkg/reaction"
)

// applyOpts holds the command-line flags for the apply command.
type applyOpts struct {
	reaction   string // reaction definition (TOML)
	host       string // host molecule (JSON)
	mapping    string // match sites (JSON object or array)
	output     string // product file; stdout when empty
	pick       bool   // choose sites interactively
	skipErrors bool   // record failing sites instead of aborting
	workers    int    // concurrent sites
	fixRings   bool   // force ring normalization regardless of the reaction file
	tautomers  bool   // force tautomer selection regardless of the reaction file
	metrics    string // Prometheus textfile; disabled when empty

	// overridden names the finalizer flags given on the command line.
	overridden map[string]bool
}

// reactorOptions returns the reactor options for the finalizer flags that
// override the reaction file.
func (o applyOpts) reactorOptions() []reactor.Option {
	var ropts []reactor.Option
	if o.overridden["fix-rings"] {
		ropts = append(ropts, reactor.WithFixRings(o.fixRings))
	}
	if o.overridden["fix-tautomers"] {
		ropts = append(ropts, reactor.WithFixTautomers(o.tautomers))
	}
	return ropts
}

// applyCommand creates the apply command for patching a host at match sites.
func (c *CLI) applyCommand() *cobra.Command {
	var opts applyOpts

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a reaction to a host molecule at one or more match sites",
		Long: `Apply a reaction to a host molecule.

The mapping file holds one template-to-host atom mapping or an array of them,
one per match site. Products are written as JSON: a single object for one site,
an array otherwise.`,
		Example: `  molpatch apply --reaction hydroxylation.toml --host chloromethane.json --mapping sites.json
  molpatch apply -r r.toml --host host.json -m sites.json --pick -o products.json
  molpatch apply -r r.toml --host host.json -m sites.json --metrics /var/lib/node_exporter/molpatch.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.overridden = map[string]bool{
				"fix-rings":     cmd.Flags().Changed("fix-rings"),
				"fix-tautomers": cmd.Flags().Changed("fix-tautomers"),
			}
			return c.runApply(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.reaction, "reaction", "r", "", "reaction definition (TOML)")
	cmd.Flags().StringVar(&opts.host, "host", "", "host molecule (JSON)")
	cmd.Flags().StringVarP(&opts.mapping, "mapping", "m", "", "match sites (JSON)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose match sites interactively")
	cmd.Flags().BoolVar(&opts.skipErrors, "skip-errors", false, "skip failing sites instead of aborting")
	cmd.Flags().IntVar(&opts.workers, "workers", pipeline.DefaultWorkers, "number of sites applied concurrently")
	cmd.Flags().BoolVar(&opts.fixRings, "fix-rings", false, "kekulize and re-aromatize products")
	cmd.Flags().BoolVar(&opts.tautomers, "fix-tautomers", false, "let re-aromatization pick tautomers (with --fix-rings)")
	cmd.Flags().StringVar(&opts.metrics, "metrics", "", "write Prometheus metrics to this textfile")
	_ = cmd.MarkFlagRequired("reaction")
	_ = cmd.MarkFlagRequired("host")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}

func (c *CLI) runApply(ctx context.Context, stdout io.Writer, opts applyOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	def, err := reaction.LoadFile(opts.reaction)
	if err != nil {
		return err
	}
	r, err := def.Reactor(append(opts.reactorOptions(), reactor.WithLogger(logger))...)
	if err != nil {
		return err
	}

	host, err := graph.ReadGraphFile(opts.host)
	if err != nil {
		return err
	}
	sites, err := graph.ReadMappingsFile(opts.mapping)
	if err != nil {
		return err
	}
	logger.Debug("inputs loaded", "reaction", def.Name, "atoms", host.AtomCount(), "sites", len(sites))

	indexes := make([]int, len(sites))
	for i := range sites {
		indexes[i] = i
	}
	if opts.pick {
		indexes, err = pickSites(ctx, host, sites)
		if err != nil {
			return err
		}
		if len(indexes) == 0 {
			printWarning("No sites selected")
			return nil
		}
	}
	chosen := make([]map[int]int, len(indexes))
	for i, idx := range indexes {
		chosen[i] = sites[idx]
	}

	policy := pipeline.Abort
	if opts.skipErrors {
		policy = pipeline.Skip
	}

	var collector *metrics.Collector
	if opts.metrics != "" {
		collector = metrics.New()
		collector.Register()
		defer observability.Reset()
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Applying %s at %d sites...", def.Name, len(chosen)))
	spinner.Start()
	res, err := pipeline.NewRunner(logger).Run(ctx, r, host, chosen, pipeline.Options{
		Workers: opts.workers,
		OnError: policy,
	})
	spinner.Stop()
	if collector != nil {
		if werr := collector.WriteTextfile(opts.metrics); werr != nil {
			logger.Warn("metrics not written", "path", opts.metrics, "error", werr)
		}
	}
	if err != nil {
		return err
	}

	products := make([]graph.Product, 0, res.Stats.Applied)
	for _, s := range res.Sites {
		if s.Applied() {
			products = append(products, graph.FromProduct(indexes[s.Index], s.Product))
		} else {
			printWarning("Site %d skipped: %s", indexes[s.Index], s.Err)
		}
	}

	if err := writeProducts(stdout, opts.output, products); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Applied %s at %d of %d sites", def.Name, res.Stats.Applied, len(chosen)))
	if opts.output != "" {
		printSummary(res)
		printSuccess("Wrote %d products", len(products))
		printFile(opts.output)
		if len(products) == 1 {
			printNextStep("Draw the product", fmt.Sprintf("%s render %s -o product.svg", appName, opts.output))
		}
	}
	return nil
}

func writeProducts(stdout io.Writer, path string, products []graph.Product) error {
	if path == "" {
		return graph.WriteProducts(stdout, products)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return closeFile(f, graph.WriteProducts(f, products))
}

// closeFile closes f and returns err, or the close error when err is nil.
func closeFile(f io.Closer, err error) error {
	if cerr := f.Close(); err == nil && cerr != nil {
		return fmt.Errorf("close: %w", cerr)
	}
	return err
}
