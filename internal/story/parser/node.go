package parser

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"mctest/internal/story"
)

// mapEntry is one key/value pair from a YAML mapping node, retaining the
// key node so we can report precise source locations.
type mapEntry struct {
	KeyNode *yaml.Node
	Key     string
	Value   *yaml.Node
}

func locOf(file string, n *yaml.Node) story.SourceLocation {
	return story.SourceLocation{File: file, Line: n.Line, Column: n.Column}
}

// mapEntries returns the ordered key/value pairs of a mapping node. It
// resolves alias nodes transparently.
func mapEntries(file string, n *yaml.Node) ([]mapEntry, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		return nil, newParseError(locOf(file, n), "expected a mapping, got %s", kindName(n))
	}
	entries := make([]mapEntry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolveAlias(n.Content[i])
		val := n.Content[i+1]
		entries = append(entries, mapEntry{KeyNode: key, Key: key.Value, Value: val})
	}
	return entries, nil
}

// mapNode bundles a mapping node's entries with its own source location,
// so decoders can report an error against "this action" even when no
// single field pinpoints the problem (e.g. a missing required field).
type mapNode struct {
	Loc     story.SourceLocation
	Entries []mapEntry
}

func newMapNode(file string, n *yaml.Node) (*mapNode, error) {
	entries, err := mapEntries(file, n)
	if err != nil {
		return nil, err
	}
	return &mapNode{Loc: locOf(file, n), Entries: entries}, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

func decodeAny(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeString(file string, n *yaml.Node) (string, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.ScalarNode {
		return "", newParseError(locOf(file, n), "expected a string, got %s", kindName(n))
	}
	return n.Value, nil
}

func decodeStringSlice(file string, n *yaml.Node) ([]string, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.SequenceNode {
		return nil, newParseError(locOf(file, n), "expected a list of strings, got %s", kindName(n))
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		s, err := decodeString(file, item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeFloat(file string, n *yaml.Node) (float64, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.ScalarNode {
		return 0, newParseError(locOf(file, n), "expected a number, got %s", kindName(n))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64)
	if err != nil {
		return 0, newParseError(locOf(file, n), "expected a number, got %q", n.Value)
	}
	return f, nil
}

func decodeBool(file string, n *yaml.Node) (bool, error) {
	n = resolveAlias(n)
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, newParseError(locOf(file, n), "expected a boolean, got %q", n.Value)
	}
	return b, nil
}

// decodeLocation implements the §4.1 coercion rule: location accepts a
// 3-sequence of numbers.
func decodeLocation(file string, n *yaml.Node) (*story.Location, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.SequenceNode || len(n.Content) != 3 {
		return nil, newParseError(locOf(file, n), "location must be a 3-element [x, y, z] sequence")
	}
	vals := make([]float64, 3)
	for i, item := range n.Content {
		f, err := decodeFloat(file, item)
		if err != nil {
			return nil, err
		}
		vals[i] = f
	}
	return &story.Location{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// decodeDuration implements the §4.1 coercion rule: duration accepts
// integer milliseconds or a string "Nms|Ns|Nm".
func decodeDuration(file string, n *yaml.Node) (int64, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.ScalarNode {
		return 0, newParseError(locOf(file, n), "expected a duration, got %s", kindName(n))
	}
	if n.Tag == "!!int" {
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return 0, newParseError(locOf(file, n), "invalid integer duration %q", n.Value)
		}
		return v, nil
	}
	s := strings.TrimSpace(n.Value)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	for _, suffix := range []struct {
		s     string
		scale int64
	}{
		{"ms", 1},
		{"s", 1000},
		{"m", 60000},
	} {
		if strings.HasSuffix(s, suffix.s) {
			numPart := strings.TrimSuffix(s, suffix.s)
			n2, err := strconv.ParseInt(numPart, 10, 64)
			if err != nil {
				return 0, newParseError(locOf(file, n), "invalid duration %q", s)
			}
			return n2 * suffix.scale, nil
		}
	}
	return 0, newParseError(locOf(file, n), "invalid duration %q, expected integer ms or Nms|Ns|Nm", s)
}

// decodeCount implements the §4.1 coercion rule: count is a non-negative
// integer.
func decodeCount(file string, n *yaml.Node) (int, error) {
	n = resolveAlias(n)
	var v int
	if err := n.Decode(&v); err != nil {
		return 0, newParseError(locOf(file, n), "expected a non-negative integer, got %q", n.Value)
	}
	if v < 0 {
		return 0, newParseError(locOf(file, n), "count must be non-negative, got %d", v)
	}
	return v, nil
}

func fmtToken(n *yaml.Node) string {
	return fmt.Sprintf("%v", n.Value)
}
