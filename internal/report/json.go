package report

import "encoding/json"

// RenderJSON marshals the Suite verbatim, matching spec §4.5's "object
// mirroring the aggregate verbatim".
func RenderJSON(s Suite) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
