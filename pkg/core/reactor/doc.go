// Package reactor applies a replacement template to a matched site of a host
// molecule.
//
// # Overview
//
// A [Reactor] is built once from a matched [Pattern] and a replacement [Template]
// and then applied to any number of sites:
//
//	r, err := reactor.New(pattern, template, reactor.WithDeleteAtoms(true))
//	if err != nil {
//	    return err // INVALID_TEMPLATE or VARIABLE_BOND
//	}
//	p, err := r.Apply(host, reactor.Mapping{1: 7, 2: 9})
//
// One application runs four stages:
//
//  1. Deletion: unmasked pattern atoms missing from the template are removed, plus
//     every host atom that is only connected to the rest of the molecule through
//     them.
//  2. Patching: template atoms and bonds are written over their host counterparts,
//     unmapped template atoms get fresh ids, and untouched host atoms and bonds are
//     copied.
//  3. Stereo translation: host labels on patched atoms and bonds are re-expressed
//     for the product, or dropped when the atoms around them changed.
//  4. Normalization: optional ring normalization followed by a stereo cleanup.
//
// # Atom Kinds
//
// Query templates hold [KindAny] and [KindQuery] atoms. Concrete templates hold
// [KindElement] atoms. Every template bond has exactly one order.
//
// # Toolkit
//
// Hydrogen counting, stereocenter perception, sign translation and ring
// normalization are delegated to a [Toolkit]. The default is the reference
// toolkit from package toolkit.
//
// # Concurrency
//
// Apply never modifies the host, the caller's mapping or the Reactor. Sites of the
// same host can be processed in parallel if the toolkit is safe for concurrent
// use; the reference toolkit is.
package reactor
