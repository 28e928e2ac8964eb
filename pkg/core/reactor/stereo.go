package reactor

import (
	"context"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/observability"
)

// translateStereo re-expresses the marked host labels on the product, or drops
// them when their support changed. A label is only carried over when the atoms
// it refers to are exactly the same in host and product.
func (r *Reactor) translateStereo(ctx context.Context, host, out *mol.Graph, mk marks) Flushed {
	var flushed Flushed
	if len(mk.atoms) == 0 && len(mk.bonds) == 0 {
		return flushed
	}

	oldIdx := r.tk.Stereocenters(host)
	newIdx := r.tk.Stereocenters(out)
	hooks := observability.Reactor()

	flushAtom := func(n int, kind string) {
		flushed.Atoms = append(flushed.Atoms, n)
		r.logger.Debug("stereo flushed", "kind", kind, "atom", n)
		hooks.OnStereoFlush(ctx, kind, []int{n})
	}

	for _, n := range mk.atoms {
		src, _ := host.Atom(n)
		dst, _ := out.Atom(n)

		switch {
		case newIdx.IsTetrahedral(n):
			order, ok := oldIdx.Tetrahedra[n]
			if !ok || !out.SameNeighbors(host, n) {
				flushAtom(n, "tetrahedral")
				continue
			}
			dst.Stereo = r.tk.TetrahedronSign(out, n, order, src.Stereo)

		case newIdx.IsAllene(n):
			oldAxis, ok := oldIdx.Allenes[n]
			if !ok || !newIdx.Allenes[n].SameSupport(oldAxis) {
				flushAtom(n, "allene")
				continue
			}
			first, second := oldAxis.References()
			dst.Stereo = r.tk.AlleneSign(out, n, first, second, src.Stereo)
		}
	}

	for _, nm := range mk.bonds {
		n, m := nm[0], nm[1]
		t, ok := newIdx.CisTransOf(n, m)
		if !ok {
			continue
		}
		newAxis := newIdx.CisTrans[t]
		oldAxis, ok := oldIdx.CisTransAxis(t)
		if !ok || !newAxis.SameSupport(oldAxis) {
			flushed.Bonds = append(flushed.Bonds, nm)
			r.logger.Debug("stereo flushed", "kind", "cis-trans", "bond", nm)
			hooks.OnStereoFlush(ctx, "cis-trans", []int{n, m})
			continue
		}

		hb, _ := host.Bond(n, m)
		lb := newAxis.LabelBond
		dst, ok := out.Bond(lb[0], lb[1])
		if !ok {
			continue
		}
		first, second := oldAxis.References()
		dst.Stereo = r.tk.CisTransSign(out, t[0], t[1], first, second, hb.Stereo)
	}
	return flushed
}
