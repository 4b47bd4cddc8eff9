package orchestrator

import "encoding/json"

// toGeneric converts a typed Go value (a backend.* DTO, a slice of them,
// etc.) into the map[string]any / []any / scalar tree that the path
// walker and JSON differ operate on. A JSON round trip is the simplest
// reliable way to normalize arbitrary struct shapes without a bespoke
// reflection walker, matching the store_state/compare_states behavior of
// treating step outputs as plain JSON documents.
func toGeneric(v any) any {
	switch v.(type) {
	case map[string]any, []any, string, float64, bool, nil:
		return v
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(buf, &out); err != nil {
		return v
	}
	return out
}
