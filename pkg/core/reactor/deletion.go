package reactor

import (
	"maps"
	"slices"

	"github.com/matzehuels/molpatch/pkg/core/mol"
)

// expandDeletions returns core plus every host atom that only hangs off core.
//
// The host is walked depth-first from each unvisited neighbor of a core atom that
// is neither core nor retained. Core and retained atoms are skipped, not crossed.
// A walk that touched a retained atom keeps its branch; any other walk deletes it.
// Visited atoms are shared across walks so every atom is evaluated once.
func expandDeletions(host *mol.Graph, core, retained map[int]struct{}) map[int]struct{} {
	deleted := make(map[int]struct{}, len(core))
	if len(core) == 0 {
		return deleted
	}
	maps.Copy(deleted, core)

	w := &branchWalker{
		host:     host,
		core:     core,
		retained: retained,
		visited:  make(map[int]struct{}),
	}
	for _, x := range slices.Sorted(maps.Keys(core)) {
		for _, n := range host.Neighbors(x) {
			if w.seen(n) {
				continue
			}
			if _, ok := retained[n]; ok {
				continue
			}
			if _, ok := core[n]; ok {
				continue
			}
			branch, commit := w.branch(n)
			if !commit {
				continue
			}
			for _, b := range branch {
				deleted[b] = struct{}{}
			}
		}
	}
	return deleted
}

// branchWalker carries the visited set shared by all branch walks of one expansion.
type branchWalker struct {
	host     *mol.Graph
	core     map[int]struct{}
	retained map[int]struct{}
	visited  map[int]struct{}
}

func (w *branchWalker) seen(n int) bool {
	_, ok := w.visited[n]
	return ok
}

// branch walks from start and returns the atoms it visited. commit is false when
// the walk reached a retained atom; the branch must then be kept.
//
// The walk covers the whole branch even after a retained atom was seen, so no
// later walk can enter a kept branch.
func (w *branchWalker) branch(start int) (branch []int, commit bool) {
	branch = []int{start}
	w.visited[start] = struct{}{}
	stack := w.unvisited(start)
	keep := false

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := w.retained[cur]; ok {
			keep = true
			continue
		}
		if _, ok := w.core[cur]; ok {
			continue
		}
		if w.seen(cur) {
			continue
		}
		branch = append(branch, cur)
		w.visited[cur] = struct{}{}
		stack = append(stack, w.unvisited(cur)...)
	}
	return branch, !keep
}

func (w *branchWalker) unvisited(n int) []int {
	var out []int
	for _, m := range w.host.Neighbors(n) {
		if !w.seen(m) {
			out = append(out, m)
		}
	}
	return out
}
