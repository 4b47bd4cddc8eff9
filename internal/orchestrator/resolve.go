package orchestrator

import (
	"fmt"
	"regexp"
	"strings"

	"mctest/internal/koerr"
)

// refPattern matches the three reference-expression forms of spec.md §4.4:
// ${{ steps.STEPID.outputs.NAME }}, ${name} and {name}. The longer
// ${{ ... }} form is tried first since it also matches the ${...} prefix.
var refPattern = regexp.MustCompile(`\$\{\{\s*([^}]+?)\s*\}\}|\$\{([^}]+)\}|\{([^{}]+)\}`)

// Resolver resolves reference expressions against a Store eagerly: every
// match is substituted before the surrounding action runs.
type Resolver struct {
	store *Store
}

// NewResolver builds a Resolver bound to store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveString substitutes every reference expression found in s. An
// unresolvable reference is a hard error (koerr.KindReferenceUnbound),
// per spec.md §4.4's "reference a name that doesn't exist is an error,
// not a silent empty string".
func (r *Resolver) ResolveString(s string) (string, error) {
	var firstErr error
	result := refPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}
		groups := refPattern.FindStringSubmatch(match)
		var expr string
		switch {
		case groups[1] != "":
			expr = groups[1]
		case groups[2] != "":
			expr = groups[2]
		default:
			expr = groups[3]
		}
		val, err := r.resolveExpr(strings.TrimSpace(expr))
		if err != nil {
			firstErr = err
			return match
		}
		return fmt.Sprint(val)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// resolveExpr resolves one bare expression (without the surrounding
// ${...}/{...} delimiters) to its value.
func (r *Resolver) resolveExpr(expr string) (any, error) {
	if strings.HasPrefix(expr, "steps.") {
		return r.resolveStepOutput(expr)
	}
	if dot := strings.IndexByte(expr, '.'); dot > 0 {
		name := expr[:dot]
		v, ok := r.store.Var(name)
		if !ok {
			return nil, koerr.New(koerr.KindReferenceUnbound, "unbound variable %q", name)
		}
		segments, err := parsePath(expr[dot+1:])
		if err != nil {
			return nil, err
		}
		out, err := walkPath(toGeneric(v), segments)
		if err != nil {
			return nil, koerr.Wrap(koerr.KindReferenceUnbound, err, "resolving %q", expr)
		}
		return out, nil
	}
	v, ok := r.store.Var(expr)
	if !ok {
		return nil, koerr.New(koerr.KindReferenceUnbound, "unbound variable %q", expr)
	}
	return v, nil
}

// resolveStepOutput resolves "steps.STEPID.outputs.NAME[.more.path]".
func (r *Resolver) resolveStepOutput(expr string) (any, error) {
	parts := strings.SplitN(expr, ".", 4)
	if len(parts) < 4 || parts[0] != "steps" || parts[2] != "outputs" {
		return nil, koerr.New(koerr.KindReferenceUnbound, "malformed step-output reference %q, want steps.ID.outputs.NAME", expr)
	}
	stepID, rest := parts[1], parts[3]
	out, ok := r.store.StepOutput(stepID)
	if !ok {
		return nil, koerr.New(koerr.KindReferenceUnbound, "no recorded output for step %q", stepID)
	}

	nameAndPath := strings.SplitN(rest, ".", 2)
	name := nameAndPath[0]
	var trailing string
	if len(nameAndPath) == 2 {
		trailing = nameAndPath[1]
	}

	root, ok := asMap(toGeneric(out))
	if !ok {
		return nil, koerr.New(koerr.KindReferenceUnbound, "step %q output is not an object", stepID)
	}
	v, ok := root[name]
	if !ok {
		return nil, koerr.New(koerr.KindReferenceUnbound, "step %q has no output named %q", stepID, name)
	}
	if trailing == "" {
		return v, nil
	}
	segments, err := parsePath(trailing)
	if err != nil {
		return nil, err
	}
	result, err := walkPath(toGeneric(v), segments)
	if err != nil {
		return nil, koerr.Wrap(koerr.KindReferenceUnbound, err, "resolving %q", expr)
	}
	return result, nil
}
