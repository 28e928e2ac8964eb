package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/molpatch/pkg/core/mol"
	"github.com/matzehuels/molpatch/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a molecule to JSON bytes.
// Atoms are sorted by ID for deterministic output.
func MarshalGraph(g *mol.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(FromMol(g), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a molecule to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *mol.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeJSON(FromMol(g), f)
}

// WriteGraph writes a molecule as JSON to an io.Writer.
// Use MarshalGraph for in-memory serialization or WriteGraphFile for files.
func WriteGraph(g *mol.Graph, w io.Writer) error {
	return writeJSON(FromMol(g), w)
}

// ReadGraphFile reads a JSON file and returns the decoded molecule.
func ReadGraphFile(path string) (*mol.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "molecule file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON molecule from an io.Reader.
//
// Besides a bare molecule, a single product document as written by
// [WriteProducts] is accepted; its graph is returned.
func ReadGraph(r io.Reader) (*mol.Graph, error) {
	return readGraphFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// document is either a molecule or a product wrapping one.
type document struct {
	Graph
	Product *Graph `json:"graph"`
}

func readGraphFrom(r io.Reader) (*mol.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode molecule")
	}
	if doc.Product != nil {
		return ToMol(*doc.Product)
	}
	return ToMol(doc.Graph)
}
