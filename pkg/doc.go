// Package pkg provides the core libraries for molpatch, a molecular graph patch
// engine.
//
// # Overview
//
// A reaction is described by a pattern (the host atoms it matched) and a
// template (what those atoms become). Given a host molecule and a mapping from
// pattern and template ids to host atoms, molpatch deletes the atoms the
// template drops, patches in the template's atoms and bonds, carries stereo
// configuration across and normalizes the result. The pkg directory is
// organized into these areas:
//
//  1. [core/mol] - Molecular graph, element table and the aromaticity toolkit
//  2. [core/reactor] - Deletion analysis, patching, stereo translation and finalization
//  3. [reaction] - TOML reaction definitions
//  4. [graph] - JSON serialization of molecules, mappings and products
//  5. [pipeline] - Concurrent application of a reaction at many match sites
//  6. [render] - Molecule drawings
//
// # Architecture
//
// The typical data flow through molpatch:
//
//	reaction.toml        host.json + sites.json
//	      ↓                        ↓
//	 [reaction]               [graph]
//	      ↓                        ↓
//	 [core/reactor] ←──────── [pipeline]
//	      ↓
//	 products.json / SVG
//
// # Quick Start
//
// Load a reaction and apply it at one site:
//
//	def, _ := reaction.LoadFile("hydroxylation.toml")
//	r, _ := def.Reactor()
//	host, _ := graph.ReadGraphFile("chloromethane.json")
//	p, err := r.Apply(host, reactor.Mapping{1: 1, 2: 2})
//
// Apply it at many sites concurrently:
//
//	res, err := pipeline.NewRunner(nil).Run(ctx, r, host, sites, pipeline.Options{Workers: 8})
//
// # Supporting Packages
//
// [errors] - Coded errors shared by every package. Callers branch on the code
// with [errors.Is] rather than on message text.
//
// [observability] - Optional hooks for reactor applications and batch runs. Its
// metrics subpackage exports them to Prometheus.
//
// [buildinfo] - Version information injected at build time.
//
// [core/mol]: https://pkg.go.dev/github.com/matzehuels/molpatch/pkg/core/mol
// [core/reactor]: https://pkg.go.dev/github.com/matzehuels/molpatch/pkg/core/reactor
// [reaction]: https://pkg.go.dev/github.com/matzehuels/molpatch/pkg/reaction
// [graph]: https://pkg.go.dev/github.com/matzehuels/molpatch/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/molpatch/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/molpatch/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/molpatch/pkg/errors
// [errors.Is]: https://pkg.go.dev/github.com/matzehuels/molpatch/pkg/errors#Is
// [observability]: https://pkg.go.dev/github.com/matzehuels/molpatch/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/molpatch/pkg/buildinfo
package pkg
