package orchestrator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mctest/internal/koerr"
)

// pathSegment is one hop of a restricted dotted-path expression: a field
// name, optionally followed by a numeric array index (e.g. "entities[0]")
// or a single filter predicate (e.g. "entities[?(@.id == 'x')]").
type pathSegment struct {
	Field     string
	Index     *int
	FilterKey string
	FilterVal string
	HasFilter bool
}

// filterPredicate matches the one filter form spec.md §4.4 allows:
// "[?(@.KEY == 'LITERAL')]".
var filterPredicate = regexp.MustCompile(`^\?\(@\.(\w+)\s*==\s*'([^']*)'\)$`)

// parsePath splits a dotted path such as "outputs.entities[0].type" or
// "entities[?(@.type == 'zombie')]" into its segments. This is the single
// grammar shared by reference-expression resolution and
// extract_with_jsonpath, per the design note that they use the same
// restricted walker rather than a general-purpose JSONPath library.
func parsePath(path string) ([]pathSegment, error) {
	path = strings.TrimPrefix(path, "$.")
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return nil, nil
	}

	// Split on dots outside brackets only, so a filter predicate such as
	// "[?(@.id == 'x')]" stays inside its segment.
	var raws []string
	depth, start := 0, 0
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				raws = append(raws, path[start:i])
				start = i + 1
			}
		}
	}
	raws = append(raws, path[start:])

	var segments []pathSegment
	for _, raw := range raws {
		if raw == "" {
			return nil, koerr.New(koerr.KindReferenceUnbound, "empty path segment in %q", path)
		}
		field := raw
		var idx *int
		var filterKey, filterVal string
		hasFilter := false
		if open := strings.IndexByte(raw, '['); open >= 0 {
			if !strings.HasSuffix(raw, "]") {
				return nil, koerr.New(koerr.KindReferenceUnbound, "malformed index in path segment %q", raw)
			}
			field = raw[:open]
			inner := raw[open+1 : len(raw)-1]
			if m := filterPredicate.FindStringSubmatch(inner); m != nil {
				hasFilter = true
				filterKey, filterVal = m[1], m[2]
			} else {
				n, err := strconv.Atoi(inner)
				if err != nil {
					return nil, koerr.Wrap(koerr.KindReferenceUnbound, err, "malformed index in path segment %q", raw)
				}
				idx = &n
			}
		}
		segments = append(segments, pathSegment{Field: field, Index: idx, FilterKey: filterKey, FilterVal: filterVal, HasFilter: hasFilter})
	}
	return segments, nil
}

// walkPath navigates value through segments, supporting map[string]any,
// []any and structs exposed via asMap/asSlice (which convert through
// toGeneric, see reflectview.go).
func walkPath(value any, segments []pathSegment) (any, error) {
	cur := value
	for _, seg := range segments {
		if seg.Field != "" {
			m, ok := asMap(cur)
			if !ok {
				return nil, koerr.New(koerr.KindReferenceUnbound, "cannot access field %q of non-object value", seg.Field)
			}
			v, ok := m[seg.Field]
			if !ok {
				return nil, koerr.New(koerr.KindReferenceUnbound, "field %q not found", seg.Field)
			}
			cur = v
		}
		if seg.Index != nil {
			s, ok := asSlice(cur)
			if !ok {
				return nil, koerr.New(koerr.KindReferenceUnbound, "cannot index non-array value at %q", seg.Field)
			}
			if *seg.Index < 0 || *seg.Index >= len(s) {
				return nil, koerr.New(koerr.KindReferenceUnbound, "index %d out of range (len %d)", *seg.Index, len(s))
			}
			cur = s[*seg.Index]
		}
		if seg.HasFilter {
			s, ok := asSlice(cur)
			if !ok {
				return nil, koerr.New(koerr.KindReferenceUnbound, "cannot filter non-array value at %q", seg.Field)
			}
			var matched []any
			for _, item := range s {
				m, ok := asMap(item)
				if !ok {
					continue
				}
				if fieldEqualsString(m[seg.FilterKey], seg.FilterVal) {
					matched = append(matched, item)
				}
			}
			cur = matched
		}
	}
	return cur, nil
}

// fieldEqualsString reports whether v, rendered as its natural string form,
// equals target. Shared by the jsonpath filter predicate and
// filter_entities, both of which compare an arbitrary field against a
// string literal.
func fieldEqualsString(v any, target string) bool {
	switch t := v.(type) {
	case string:
		return t == target
	case nil:
		return false
	case bool:
		return strconv.FormatBool(t) == target
	case float64:
		if f, err := strconv.ParseFloat(target, 64); err == nil {
			return t == f
		}
		return strconv.FormatFloat(t, 'g', -1, 64) == target
	default:
		return fmt.Sprintf("%v", t) == target
	}
}

// asMap coerces v into map[string]any, converting structs via toGeneric.
func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	default:
		g := toGeneric(v)
		m, ok := g.(map[string]any)
		return m, ok
	}
}

// asSlice coerces v into []any, converting typed slices via toGeneric.
func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	default:
		g := toGeneric(v)
		s, ok := g.([]any)
		return s, ok
	}
}

// fmtPath renders segments back to a dotted-path string, used in error
// messages.
func fmtPath(segments []pathSegment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Field)
		if seg.Index != nil {
			fmt.Fprintf(&b, "[%d]", *seg.Index)
		}
		if seg.HasFilter {
			fmt.Fprintf(&b, "[?(@.%s == '%s')]", seg.FilterKey, seg.FilterVal)
		}
	}
	return b.String()
}
