package parser

import "mctest/internal/story"

func parseAssertion(file string, node *mapNode) (story.Assertion, error) {
	as := story.Assertion{Loc: node.Loc}

	rawKind := ""
	for _, e := range node.Entries {
		if e.Key == "action" || e.Key == "assertion" {
			s, err := decodeString(file, e.Value)
			if err != nil {
				return as, err
			}
			rawKind = s
		}
	}
	if rawKind == "" {
		return as, newParseError(node.Loc, "assertion is missing required field %q", "action")
	}
	kind, ok := normalizeAssertionKind(rawKind)
	if !ok {
		return as, newParseErrorToken(node.Loc, rawKind, "unknown assertion kind")
	}
	as.Kind = kind
	as.Raw = map[string]any{}

	for _, e := range node.Entries {
		var err error
		switch e.Key {
		case "action", "assertion":
		case "name":
			as.Name, err = decodeString(file, e.Value)
		case "step_id", "stepId":
			as.StepID, err = decodeString(file, e.Value)
		case "player":
			as.Player, err = decodeString(file, e.Value)
		case "entity":
			as.Entity, err = decodeString(file, e.Value)
		case "item":
			as.Item, err = decodeString(file, e.Value)
		case "slot":
			as.Slot, err = decodeString(file, e.Value)
		case "value":
			as.Value, err = decodeFloat(file, e.Value)
		case "source":
			as.Source, err = decodeString(file, e.Value)
		case "contains":
			as.Contains, err = decodeString(file, e.Value)
		case "expected":
			var b bool
			b, err = decodeBool(file, e.Value)
			if err == nil {
				as.Expected = &b
			}
		case "expectedJson", "expected_json":
			as.ExpectedJSON, err = decodeString(file, e.Value)
		case "expression":
			as.Expression, err = decodeString(file, e.Value)
		case "condition":
			var s string
			s, err = decodeString(file, e.Value)
			if err == nil {
				cond, ok := normalizeCondition(s)
				if !ok {
					err = newParseErrorToken(locOf(file, e.Value), s, "unknown condition")
				} else {
					as.Condition = cond
				}
			}
		default:
			var v any
			v, err = decodeAny(e.Value)
			if err == nil {
				as.Raw[e.Key] = v
			}
		}
		if err != nil {
			return as, err
		}
	}

	if err := validateAssertion(&as); err != nil {
		return as, err
	}
	return as, nil
}
