package config

import (
	"encoding/json"
	"sort"

	"github.com/tidwall/gjson"
)

// Store is one named configuration: a mapping of option name to value.
// Values may be scalars, sequences, or nested mappings. A Store is
// immutable once handed to consumers; one store describes one execution
// environment (or the run-level master configuration).
type Store struct {
	name    string
	mapping map[string]any
}

// NewStore builds a Store holding a deep copy of mapping. A nil mapping
// yields an empty store.
func NewStore(name string, mapping map[string]any) *Store {
	return &Store{name: name, mapping: copyMapping(mapping)}
}

// Name returns the store's name, e.g. the subdirectory it was built from.
func (s *Store) Name() string {
	return s.name
}

// Len returns the number of options in the store.
func (s *Store) Len() int {
	return len(s.mapping)
}

// Keys returns the option names in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.mapping))
	for k := range s.mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a single option.
func (s *Store) Get(name string) (any, bool) {
	v, ok := s.mapping[name]
	return v, ok
}

// Mapping returns a deep copy of the store's option mapping.
func (s *Store) Mapping() map[string]any {
	return copyMapping(s.mapping)
}

// Query resolves a dotted path (gjson syntax) against the store and
// returns the matched value's string form, e.g. "cluster.hosts.0".
func (s *Store) Query(path string) (string, bool) {
	data, err := json.Marshal(s.mapping)
	if err != nil {
		return "", false
	}
	result := gjson.GetBytes(data, path)
	if !result.Exists() {
		return "", false
	}
	return result.String(), true
}

// StringSlice returns the option's value as a slice of strings. Options
// parsed from JSON or YAML arrive as []any; both that and []string are
// accepted. Anything else yields nil.
func (s *Store) StringSlice(name string) []string {
	switch v := s.mapping[name].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, str)
		}
		return out
	default:
		return nil
	}
}

// copyMapping deep-copies an option mapping so stores never alias the
// mappings they were built from.
func copyMapping(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMapping(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
