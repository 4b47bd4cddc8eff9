package orchestrator

import (
	"mctest/internal/koerr"
)

// extractJSONPath evaluates the restricted path grammar of spec.md §4.4
// against value and returns the extracted result. Deliberately narrower
// than a general JSONPath implementation: root "$", dotted field access,
// "[N]" numeric indexing, and a single filter predicate
// "[?(@.KEY == 'LITERAL')]". Anything outside that grammar is a parse
// error rather than a silently-accepted extension.
func extractJSONPath(value any, path string) (any, error) {
	segments, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	out, err := walkPath(toGeneric(value), segments)
	if err != nil {
		return nil, koerr.Wrap(koerr.KindReferenceUnbound, err, "extract_with_jsonpath %q", path)
	}
	return out, nil
}

// filterEntities retains the items of entities whose filterType field
// equals filterValue (spec.md §4.4): filterType names an arbitrary field
// on each entity map, not a fixed enum.
func filterEntities(entities []any, filterType, filterValue string) ([]any, error) {
	var out []any
	for _, e := range entities {
		m, ok := asMap(e)
		if !ok {
			continue
		}
		if fieldEqualsString(m[filterType], filterValue) {
			out = append(out, e)
		}
	}
	return out, nil
}
