package reactor

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/molpatch/pkg/core/mol"
)

func TestExpandDeletions(t *testing.T) {
	tests := []struct {
		name     string
		build    func(t *testing.T) *mol.Graph
		core     []int
		retained []int
		want     []int
	}{
		{
			name:     "empty core",
			build:    func(t *testing.T) *mol.Graph { return molecule(t, "C C", [3]int{1, 2, 1}) },
			retained: []int{1, 2},
			want:     nil,
		},
		{
			name: "linear",
			build: func(t *testing.T) *mol.Graph {
				return molecule(t, "C C C", [3]int{1, 2, 1}, [3]int{2, 3, 1})
			},
			core:     []int{2},
			retained: []int{1, 3},
			want:     []int{2},
		},
		{
			name: "dangling chain",
			build: func(t *testing.T) *mol.Graph {
				return molecule(t, "C C C C", [3]int{1, 2, 1}, [3]int{2, 3, 1}, [3]int{3, 4, 1})
			},
			core:     []int{2},
			retained: []int{1},
			want:     []int{2, 3, 4},
		},
		{
			name: "alternate path preserves branch",
			build: func(t *testing.T) *mol.Graph {
				return molecule(t, "C C C C",
					[3]int{1, 2, 1}, [3]int{2, 3, 1}, [3]int{2, 4, 1}, [3]int{4, 3, 1})
			},
			core:     []int{2},
			retained: []int{1, 3},
			want:     []int{2},
		},
		{
			name: "ring hanging off core",
			build: func(t *testing.T) *mol.Graph {
				return molecule(t, "C C C C",
					[3]int{1, 2, 1}, [3]int{2, 3, 1}, [3]int{3, 4, 1}, [3]int{4, 2, 1})
			},
			core:     []int{2},
			retained: []int{1},
			want:     []int{2, 3, 4},
		},
		{
			name: "kept branch entered twice",
			build: func(t *testing.T) *mol.Graph {
				// 2 sees 3 before the retained atom 1; 4 touches both 2 and 3.
				return molecule(t, "C C C C",
					[3]int{2, 3, 1}, [3]int{2, 1, 1}, [3]int{4, 2, 1}, [3]int{4, 3, 1})
			},
			core:     []int{4},
			retained: []int{1},
			want:     []int{4},
		},
		{
			name: "branch between two core atoms",
			build: func(t *testing.T) *mol.Graph {
				return molecule(t, "C C C C",
					[3]int{1, 2, 1}, [3]int{2, 3, 1}, [3]int{3, 4, 1})
			},
			core:     []int{2, 4},
			retained: []int{1},
			want:     []int{2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := tt.build(t)
			got := expandDeletions(host, set(tt.core...), set(tt.retained...))
			assert.ElementsMatch(t, tt.want, sortedSet(got))
		})
	}
}

func TestBranchWalker_Branch(t *testing.T) {
	host := molecule(t, "C C C C C",
		[3]int{1, 2, 1}, [3]int{2, 3, 1}, [3]int{3, 4, 1}, [3]int{2, 5, 1})

	w := &branchWalker{host: host, core: set(2), retained: set(1), visited: map[int]struct{}{}}
	branch, commit := w.branch(3)
	assert.True(t, commit)
	assert.ElementsMatch(t, []int{3, 4}, branch)

	w = &branchWalker{host: host, core: set(3), retained: set(1), visited: map[int]struct{}{}}
	branch, commit = w.branch(2)
	assert.False(t, commit)
	assert.ElementsMatch(t, []int{2, 5}, branch)
}

// reachabilityDeletions computes the deletion set from its definition: core plus
// every atom whose component outside core touches core but no retained atom.
func reachabilityDeletions(host *mol.Graph, core, retained map[int]struct{}) map[int]struct{} {
	out := set()
	if len(core) == 0 {
		return out
	}
	for n := range core {
		out[n] = struct{}{}
	}
	for _, start := range host.Atoms() {
		if _, ok := core[start]; ok {
			continue
		}
		comp := set(start)
		queue := []int{start}
		touchesCore, touchesRetained := false, false
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if _, ok := retained[cur]; ok {
				touchesRetained = true
			}
			for _, m := range host.Neighbors(cur) {
				if _, ok := core[m]; ok {
					touchesCore = true
					continue
				}
				if _, ok := comp[m]; !ok {
					comp[m] = struct{}{}
					queue = append(queue, m)
				}
			}
		}
		if touchesCore && !touchesRetained {
			out[start] = struct{}{}
		}
	}
	return out
}

func TestExpandDeletions_MatchesReachability(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := range 200 {
		const atoms = 12
		host := mol.New()
		for id := 1; id <= atoms; id++ {
			require.NoError(t, host.AddAtom(id, mol.Atom{AtomicNumber: 6}))
		}
		for n := 1; n <= atoms; n++ {
			for m := n + 1; m <= atoms; m++ {
				if rng.IntN(100) < 18 {
					require.NoError(t, host.AddBond(n, m, mol.Bond{Order: mol.Single}))
				}
			}
		}

		perm := rng.Perm(atoms)
		nCore, nRetained := 1+rng.IntN(3), 1+rng.IntN(3)
		core, retained := set(), set()
		for _, i := range perm[:nCore] {
			core[i+1] = struct{}{}
		}
		for _, i := range perm[nCore : nCore+nRetained] {
			retained[i+1] = struct{}{}
		}

		got := expandDeletions(host, core, retained)
		want := reachabilityDeletions(host, core, retained)
		require.ElementsMatch(t, sortedSet(want), sortedSet(got), "round %d", round)

		for n := range retained {
			assert.NotContains(t, got, n, "retained atom deleted in round %d", round)
		}
	}
}
