package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/matzehuels/molpatch/pkg/errors"
)

// Mapping is the JSON form of a template-to-host atom mapping. Keys are template
// atom ids written as strings, as JSON requires.
type Mapping map[string]int

// FromMapping converts an integer mapping to its JSON form.
func FromMapping(m map[int]int) Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[strconv.Itoa(k)] = v
	}
	return out
}

// ToMapping converts a JSON mapping back to integer keys.
func ToMapping(m Mapping) (map[int]int, error) {
	out := make(map[int]int, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "mapping key %q is not an atom id", k)
		}
		out[id] = m[k]
	}
	return out, nil
}

// ReadMappingsFile reads match sites from a JSON file. See [ReadMappings].
func ReadMappingsFile(path string) ([]map[int]int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "mapping file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadMappings(f)
}

// ReadMappings decodes one mapping object or an array of mapping objects:
//
//	{"1": 7, "2": 9}
//	[{"1": 7, "2": 9}, {"1": 12, "2": 14}]
func ReadMappings(r io.Reader) ([]map[int]int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read mappings: %w", err)
	}
	data = bytes.TrimSpace(data)

	var raw []Mapping
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode mappings")
		}
	} else {
		var one Mapping
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode mapping")
		}
		raw = []Mapping{one}
	}

	out := make([]map[int]int, 0, len(raw))
	for i, m := range raw {
		converted, err := ToMapping(m)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "site %d", i)
		}
		out = append(out, converted)
	}
	return out, nil
}
