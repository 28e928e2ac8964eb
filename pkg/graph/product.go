package graph

import (
	"io"

	"github.com/matzehuels/molpatch/pkg/core/reactor"
)

// Product is the serialized result of applying a reaction at one site.
type Product struct {
	Site    int      `json:"site"`
	Graph   Graph    `json:"graph"`
	Mapping Mapping  `json:"mapping"`
	Deleted []int    `json:"deleted,omitempty"`
	Added   []int    `json:"added,omitempty"`
	Flushed *Flushed `json:"flushed,omitempty"`
}

// Flushed lists stereo labels dropped during patching.
type Flushed struct {
	Atoms []int    `json:"atoms,omitempty"`
	Bonds [][2]int `json:"bonds,omitempty"`
}

// FromProduct converts a reactor product for the given site index.
func FromProduct(site int, p *reactor.Product) Product {
	out := Product{
		Site:    site,
		Graph:   FromMol(p.Graph),
		Mapping: FromMapping(p.Mapping),
		Deleted: p.Deleted,
		Added:   p.Added,
	}
	if p.Flushed.Len() > 0 {
		out.Flushed = &Flushed{Atoms: p.Flushed.Atoms, Bonds: p.Flushed.Bonds}
	}
	return out
}

// WriteProducts writes products as indented JSON: a single object for one
// product, an array otherwise.
func WriteProducts(w io.Writer, products []Product) error {
	if len(products) == 1 {
		return writeJSON(products[0], w)
	}
	if products == nil {
		products = []Product{}
	}
	return writeJSON(products, w)
}
