package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"mctest/internal/koerr"
)

// conditionOperators is the closed set of comparators assert_condition
// accepts. Per spec.md §9 this grammar is deliberately narrow - "atom OP
// atom", no boolean combinators, no nesting - and a hand-rolled evaluator
// rejecting anything outside it is preferable to pulling in a
// general-purpose expression engine that would silently accept more than
// the spec allows.
var conditionOperators = []string{"==", "!=", ">=", "<=", ">", "<"}

// evalCondition evaluates an assert_condition expression such as
// "${result.health} < 10" after reference resolution has already
// substituted variables into atoms that are not already literals.
func evalCondition(expr string) (bool, error) {
	op, left, right, err := splitCondition(expr)
	if err != nil {
		return false, err
	}
	return compareAtoms(left, op, right)
}

func splitCondition(expr string) (op, left, right string, err error) {
	expr = strings.TrimSpace(expr)
	for _, candidate := range conditionOperators {
		if idx := strings.Index(expr, candidate); idx >= 0 {
			left = strings.TrimSpace(expr[:idx])
			right = strings.TrimSpace(expr[idx+len(candidate):])
			return candidate, left, right, nil
		}
	}
	return "", "", "", koerr.New(koerr.KindParse, "assert_condition expression %q has no recognized operator (== != >= <= > <)", expr)
}

func compareAtoms(left, op, right string) (bool, error) {
	lf, lIsNum := parseNumericAtom(left)
	rf, rIsNum := parseNumericAtom(right)

	if lIsNum && rIsNum {
		switch op {
		case "==":
			return lf == rf, nil
		case "!=":
			return lf != rf, nil
		case ">=":
			return lf >= rf, nil
		case "<=":
			return lf <= rf, nil
		case ">":
			return lf > rf, nil
		case "<":
			return lf < rf, nil
		}
	}

	ls, rs := unquote(left), unquote(right)
	switch op {
	case "==":
		return ls == rs, nil
	case "!=":
		return ls != rs, nil
	default:
		return false, koerr.New(koerr.KindParse, "operator %q requires numeric operands, got %q and %q", op, left, right)
	}
}

func parseNumericAtom(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

// describeCondition renders a human-readable summary for report evidence.
func describeCondition(expr string, result bool) string {
	return fmt.Sprintf("%s => %v", expr, result)
}
