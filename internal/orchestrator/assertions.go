package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"mctest/internal/koerr"
	"mctest/internal/story"
)

func (r *Runner) runAssertions(ctx context.Context, assertions []story.Assertion) []story.AssertionResult {
	out := make([]story.AssertionResult, 0, len(assertions))
	for i := range assertions {
		out = append(out, r.runOneAssertion(ctx, &assertions[i]))
	}
	return out
}

func (r *Runner) resolveAssertion(a *story.Assertion) (story.Assertion, error) {
	out := *a
	fields := []*string{&out.Player, &out.Entity, &out.Item, &out.Slot, &out.Source, &out.Contains, &out.Expression, &out.ExpectedJSON}
	for _, f := range fields {
		resolved, err := r.resolver.ResolveString(*f)
		if err != nil {
			return out, err
		}
		*f = resolved
	}
	return out, nil
}

func (r *Runner) runOneAssertion(ctx context.Context, a *story.Assertion) story.AssertionResult {
	name := a.Name
	if name == "" {
		name = string(a.Kind)
	}

	resolved, err := r.resolveAssertion(a)
	if err != nil {
		return story.AssertionResult{Name: name, Kind: a.Kind, Passed: false, Message: err.Error()}
	}

	passed, message, details, err := r.evalAssertion(ctx, &resolved)
	if err != nil {
		return story.AssertionResult{Name: name, Kind: a.Kind, Passed: false, Message: err.Error()}
	}
	return story.AssertionResult{Name: name, Kind: a.Kind, Passed: passed, Message: message, Details: details}
}

func (r *Runner) evalAssertion(ctx context.Context, a *story.Assertion) (passed bool, message, details string, err error) {
	b := r.backend

	switch a.Kind {
	case story.AssertEntityHealth:
		h, err := b.GetEntityHealth(ctx, a.Entity)
		if err != nil {
			return false, "", "", err
		}
		ok, err := compareAtoms(fmt.Sprint(h), conditionSymbol(a.Condition), fmt.Sprint(a.Value))
		if err != nil {
			return false, "", "", err
		}
		return ok, fmt.Sprintf("entity %q health %v %s %v", a.Entity, h, a.Condition, a.Value), "", nil

	case story.AssertEntityExistsCheck, story.AssertEntityExists:
		exists, err := b.EntityExists(ctx, a.Entity)
		if err != nil {
			return false, "", "", err
		}
		want := a.ExpectedOrDefault(true)
		return exists == want, fmt.Sprintf("entity %q exists=%v want=%v", a.Entity, exists, want), "", nil

	case story.AssertEntityMissing:
		exists, err := b.EntityExists(ctx, a.Entity)
		if err != nil {
			return false, "", "", err
		}
		return !exists, fmt.Sprintf("entity %q exists=%v want=false", a.Entity, exists), "", nil

	case story.AssertPlayerInventory, story.AssertPlayerHasItem:
		inv, err := b.GetInventory(ctx, a.Player)
		if err != nil {
			return false, "", "", err
		}
		for _, it := range inv.Items {
			if it.ID == a.Item {
				return true, fmt.Sprintf("player %q has item %q", a.Player, a.Item), "", nil
			}
		}
		return false, fmt.Sprintf("player %q does not have item %q", a.Player, a.Item), "", nil

	case story.AssertResponseContains:
		s := a.Source
		return strings.Contains(s, a.Contains), fmt.Sprintf("%q contains %q", s, a.Contains), "", nil

	case story.AssertLogContains:
		found := r.matchedLogLine(a.Contains)
		return found, fmt.Sprintf("combined log contains %q: %v", a.Contains, found), "", nil

	case story.AssertJSONEquals:
		var got any
		if err := json.Unmarshal([]byte(a.Source), &got); err != nil {
			return false, "", "", koerr.Wrap(koerr.KindParse, err, "assert_json_equals: invalid source JSON")
		}
		var want any
		if err := json.Unmarshal([]byte(a.ExpectedJSON), &want); err != nil {
			return false, "", "", koerr.Wrap(koerr.KindParse, err, "assert_json_equals: invalid expectedJson")
		}
		equal := reflect.DeepEqual(toGeneric(got), toGeneric(want))
		diff := DiffStates(got, want)
		details := ""
		if !equal {
			details = fmt.Sprintf("added=%d removed=%d changed=%d", len(diff.Added), len(diff.Removed), len(diff.Changed))
		}
		return equal, fmt.Sprintf("json equals: %v", equal), details, nil

	case story.AssertCondition:
		ok, err := evalCondition(a.Expression)
		if err != nil {
			return false, "", "", err
		}
		return ok, describeCondition(a.Expression, ok), "", nil
	}

	return false, "", "", koerr.New(koerr.KindParse, "no evaluator registered for assertion kind %q", a.Kind)
}

func conditionSymbol(c story.Condition) string {
	switch c {
	case story.CondEQ:
		return "=="
	case story.CondNE:
		return "!="
	case story.CondLT:
		return "<"
	case story.CondLE:
		return "<="
	case story.CondGT:
		return ">"
	case story.CondGE:
		return ">="
	default:
		return "=="
	}
}
