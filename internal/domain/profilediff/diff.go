// Package profilediff computes structural differences between two JSON
// object trees. Objects present on both sides are compared recursively;
// every other value, including lists, is compared as a whole.
package profilediff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Node is either a Leaf or a nested Section.
type Node interface {
	node()
}

// Leaf records a changed value. An absent field is reported as nil.
type Leaf struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Section maps field names to the differences found beneath them.
type Section map[string]Node

func (Leaf) node()    {}
func (Section) node() {}

// Compare walks a and b in parallel, visiting keys in alphabetical order,
// and returns the differences. The result is never nil.
func Compare(a, b map[string]any) Section {
	out := Section{}
	for _, key := range unionKeys(a, b) {
		if n := compareValues(a[key], b[key]); n != nil {
			out[key] = n
		}
	}
	return out
}

func compareValues(from, to any) Node {
	fromObj, fromIsObj := from.(map[string]any)
	toObj, toIsObj := to.(map[string]any)
	if fromIsObj && toIsObj {
		nested := Compare(fromObj, toObj)
		if len(nested) == 0 {
			return nil
		}
		return nested
	}

	if reflect.DeepEqual(from, to) {
		return nil
	}
	return Leaf{From: from, To: to}
}

func unionKeys(a, b map[string]any) []string {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return slices.Sorted(maps.Keys(keys))
}

// Paths returns the dotted paths of every leaf change, sorted.
func (s Section) Paths() []string {
	var paths []string
	s.walk("", func(path string, _ Leaf) {
		paths = append(paths, path)
	})
	return paths
}

// Count returns the number of leaf changes in s.
func (s Section) Count() int {
	n := 0
	s.walk("", func(string, Leaf) { n++ })
	return n
}

func (s Section) walk(prefix string, fn func(path string, leaf Leaf)) {
	for _, key := range slices.Sorted(maps.Keys(s)) {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch n := s[key].(type) {
		case Leaf:
			fn(path, n)
		case Section:
			n.walk(path, fn)
		}
	}
}

// UnmarshalJSON decodes the wire shape back into Leaf and Section nodes. An
// object whose only keys are "from" and "to" is a Leaf unless both values
// are objects: Compare recurses into two objects instead of emitting a Leaf,
// so that case is a nested section with fields named "from" and "to".
func (s *Section) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("profilediff: decode section: %w", err)
	}

	out := make(Section, len(raw))
	for key, value := range raw {
		n, err := decodeNode(value)
		if err != nil {
			return fmt.Errorf("profilediff: field %q: %w", key, err)
		}
		out[key] = n
	}
	*s = out
	return nil
}

func decodeNode(data json.RawMessage) (Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	if isLeafShape(fields) {
		var leaf Leaf
		if err := json.Unmarshal(data, &leaf); err != nil {
			return nil, err
		}
		return leaf, nil
	}

	var nested Section
	if err := nested.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return nested, nil
}

func isLeafShape(fields map[string]json.RawMessage) bool {
	if len(fields) != 2 {
		return false
	}
	from, hasFrom := fields["from"]
	to, hasTo := fields["to"]
	if !hasFrom || !hasTo {
		return false
	}
	return !isObject(from) || !isObject(to)
}

func isObject(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// String renders the leaf changes one per line, for logs and CLIs.
func (s Section) String() string {
	var b strings.Builder
	s.walk("", func(path string, leaf Leaf) {
		fmt.Fprintf(&b, "%s: %v -> %v\n", path, render(leaf.From), render(leaf.To))
	})
	return b.String()
}

func render(v any) string {
	if v == nil {
		return "null"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
