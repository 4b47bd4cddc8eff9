package orchestrator

import (
	"fmt"
	"reflect"
	"sort"
)

// StateDiff is the result of compare_states: a normalized structural
// comparison producing the added/removed/changed partition spec.md §4.4
// calls for, expressed with RFC 6902-style add/remove/replace semantics
// (conceptually grounded on the pack's differ.Change{Path,Type,...}
// pattern, generalized here from OpenAPI documents to arbitrary JSON
// values).
type StateDiff struct {
	Equal   bool
	Added   []Change
	Removed []Change
	Changed []Change
}

// Change is one differing JSON pointer-style path between two states.
type Change struct {
	Path     string
	OldValue any
	NewValue any
}

// DiffStates structurally compares two arbitrary JSON-like values.
func DiffStates(before, after any) StateDiff {
	var d StateDiff
	diffValue("", toGeneric(before), toGeneric(after), &d)
	d.Equal = len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
	return d
}

func diffValue(path string, a, b any, d *StateDiff) {
	am, aIsMap := a.(map[string]any)
	bm, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		diffMaps(path, am, bm, d)
		return
	}

	as, aIsSlice := a.([]any)
	bs, bIsSlice := b.([]any)
	if aIsSlice && bIsSlice {
		diffSlices(path, as, bs, d)
		return
	}

	if !reflect.DeepEqual(a, b) {
		d.Changed = append(d.Changed, Change{Path: path, OldValue: a, NewValue: b})
	}
}

func diffMaps(path string, a, b map[string]any, d *StateDiff) {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		childPath := path + "/" + k
		av, aok := a[k]
		bv, bok := b[k]
		switch {
		case aok && !bok:
			d.Removed = append(d.Removed, Change{Path: childPath, OldValue: av})
		case !aok && bok:
			d.Added = append(d.Added, Change{Path: childPath, NewValue: bv})
		default:
			diffValue(childPath, av, bv, d)
		}
	}
}

func diffSlices(path string, a, b []any, d *StateDiff) {
	max := len(a)
	if len(b) > max {
		max = len(b)
	}
	for i := 0; i < max; i++ {
		childPath := fmt.Sprintf("%s/%d", path, i)
		switch {
		case i >= len(a):
			d.Added = append(d.Added, Change{Path: childPath, NewValue: b[i]})
		case i >= len(b):
			d.Removed = append(d.Removed, Change{Path: childPath, OldValue: a[i]})
		default:
			diffValue(childPath, a[i], b[i], d)
		}
	}
}
