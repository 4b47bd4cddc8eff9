package parser

import (
	"mctest/internal/story"
)

// knownActionFields is every field name the parser understands; anything
// else is preserved verbatim into Action.Raw per spec.md §6 ("unknown
// action fields are warnings (preserved, ignored)").
var knownActionFields = map[string]bool{
	"action": true, "name": true, "step_id": true, "stepId": true, "store_as": true, "storeAs": true,
	"player": true, "entity": true, "entity_type": true, "entityType": true, "item": true, "slot": true,
	"command": true, "args": true, "location": true, "count": true, "duration": true, "value": true, "mode": true,
	"message": true, "pattern": true, "weather": true, "source": true, "contains": true,
	"state1": true, "state2": true, "source_variable": true, "sourceVariable": true,
	"json_path": true, "jsonPath": true, "filter_type": true, "filterType": true,
	"filter_value": true, "filterValue": true, "expected": true, "expect_contains": true, "expectContains": true,
	"expect_matches": true, "expectMatches": true, "expect_not_contains": true, "expectNotContains": true,
	"fail_on_error": true, "failOnError": true, "condition": true,
}

func parseAction(file string, node *mapNode) (story.Action, error) {
	a := story.Action{Loc: node.Loc}

	rawKind := ""
	for _, e := range node.Entries {
		if e.Key == "action" {
			s, err := decodeString(file, e.Value)
			if err != nil {
				return a, err
			}
			rawKind = s
		}
	}
	if rawKind == "" {
		return a, newParseError(node.Loc, "action is missing required field %q", "action")
	}
	kind, legacyTok, ok := normalizeActionKind(rawKind)
	if !ok {
		return a, newParseErrorToken(node.Loc, rawKind, "unknown action kind")
	}
	a.Kind = kind

	a.Raw = map[string]any{}
	if legacyTok != "" {
		a.Raw["_legacyToken"] = legacyTok
	}

	for _, e := range node.Entries {
		var err error
		switch e.Key {
		case "action":
			// already consumed above
		case "name":
			a.Name, err = decodeString(file, e.Value)
		case "step_id", "stepId":
			a.StepID, err = decodeString(file, e.Value)
		case "store_as", "storeAs":
			a.StoreAs, err = decodeString(file, e.Value)
		case "player":
			a.Player, err = decodeString(file, e.Value)
		case "entity":
			a.Entity, err = decodeString(file, e.Value)
		case "entity_type", "entityType":
			a.EntityType, err = decodeString(file, e.Value)
		case "item":
			a.Item, err = decodeString(file, e.Value)
		case "slot":
			a.Slot, err = decodeString(file, e.Value)
		case "command":
			a.Command, err = decodeString(file, e.Value)
		case "args":
			a.Args, err = decodeStringSlice(file, e.Value)
		case "location":
			a.Location, err = decodeLocation(file, e.Value)
		case "count":
			a.Count, err = decodeCount(file, e.Value)
		case "duration":
			a.Duration, err = decodeDuration(file, e.Value)
		case "value":
			a.Value, err = decodeFloat(file, e.Value)
		case "message":
			a.Message, err = decodeString(file, e.Value)
		case "pattern":
			a.Pattern, err = decodeString(file, e.Value)
		case "weather":
			a.Weather, err = decodeString(file, e.Value)
		case "mode":
			a.Mode, err = decodeString(file, e.Value)
		case "source":
			a.Source, err = decodeString(file, e.Value)
		case "contains":
			a.Contains, err = decodeString(file, e.Value)
		case "state1":
			a.State1, err = decodeString(file, e.Value)
		case "state2":
			a.State2, err = decodeString(file, e.Value)
		case "source_variable", "sourceVariable":
			a.SourceVariable, err = decodeString(file, e.Value)
		case "json_path", "jsonPath":
			a.JSONPath, err = decodeString(file, e.Value)
		case "filter_type", "filterType":
			a.FilterType, err = decodeString(file, e.Value)
		case "filter_value", "filterValue":
			a.FilterValue, err = decodeString(file, e.Value)
		case "expected":
			var b bool
			b, err = decodeBool(file, e.Value)
			if err == nil {
				a.Expected = &b
			}
		case "expect_contains", "expectContains":
			a.ExpectContains, err = decodeString(file, e.Value)
		case "expect_matches", "expectMatches":
			a.ExpectMatches, err = decodeString(file, e.Value)
		case "expect_not_contains", "expectNotContains":
			a.ExpectNotContains, err = decodeString(file, e.Value)
		case "fail_on_error", "failOnError":
			var b bool
			b, err = decodeBool(file, e.Value)
			if err == nil {
				a.FailOnError = &b
			}
		case "condition":
			var s string
			s, err = decodeString(file, e.Value)
			if err == nil {
				cond, ok := normalizeCondition(s)
				if !ok {
					err = newParseErrorToken(locOf(file, e.Value), s, "unknown condition")
				} else {
					a.Condition = cond
				}
			}
		default:
			var v any
			v, err = decodeAny(e.Value)
			if err == nil {
				a.Raw[e.Key] = v
			}
		}
		if err != nil {
			return a, err
		}
	}

	if err := validateAction(&a); err != nil {
		return a, err
	}
	return a, nil
}
