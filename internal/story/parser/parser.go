// Package parser implements the YAML story parser (spec.md §4.1,
// component E): deterministic translation of declarative story text into
// an executable story.Story value.
package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mctest/internal/story"
)

var knownTopLevelKeys = map[string]bool{
	"name": true, "description": true, "backend": true,
	"setup": true, "steps": true, "assertions": true, "cleanup": true,
}

// Parse translates YAML story text into a Story value, or returns a
// *ParseError describing the first problem encountered.
func Parse(data []byte, filename string) (*story.Story, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{File: filename, Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if len(doc.Content) == 0 {
		return nil, &ParseError{File: filename, Message: "empty document"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{File: filename, Loc: locOf(filename, root), Message: "story document must be a mapping"}
	}

	entries, err := mapEntries(filename, root)
	if err != nil {
		return nil, withFile(err, filename)
	}

	s := &story.Story{SourceFile: filename, Backend: story.BackendConsole}

	for _, e := range entries {
		if !knownTopLevelKeys[e.Key] {
			return nil, &ParseError{File: filename, Loc: locOf(filename, e.KeyNode), Message: "unknown top-level key", Token: e.Key}
		}

		switch e.Key {
		case "name":
			s.Name, err = decodeString(filename, e.Value)
		case "description":
			s.Description, err = decodeString(filename, e.Value)
		case "backend":
			var raw string
			raw, err = decodeString(filename, e.Value)
			if err == nil {
				kind, ok := normalizeBackendKind(raw)
				if !ok {
					err = newParseErrorToken(locOf(filename, e.Value), raw, "unknown backend kind")
				} else {
					s.Backend = kind
				}
			}
		case "setup":
			s.Setup, err = parseActionList(filename, e.Value)
		case "steps":
			s.Steps, err = parseActionList(filename, e.Value)
		case "assertions":
			s.Assertions, err = parseAssertionList(filename, e.Value)
		case "cleanup":
			s.Cleanup, err = parseActionList(filename, e.Value)
		}
		if err != nil {
			return nil, withFile(err, filename)
		}
	}

	if s.Name == "" {
		return nil, &ParseError{File: filename, Loc: locOf(filename, root), Message: "story is missing required field \"name\""}
	}

	if err := checkUniqueStepIDs(s); err != nil {
		return nil, withFile(err, filename)
	}

	return s, nil
}

func parseActionList(file string, n *yaml.Node) ([]story.Action, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.SequenceNode {
		return nil, newParseError(locOf(file, n), "expected a list of actions, got %s", kindName(n))
	}
	out := make([]story.Action, 0, len(n.Content))
	for _, item := range n.Content {
		mn, err := newMapNode(file, item)
		if err != nil {
			return nil, err
		}
		a, err := parseAction(file, mn)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func parseAssertionList(file string, n *yaml.Node) ([]story.Assertion, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.SequenceNode {
		return nil, newParseError(locOf(file, n), "expected a list of assertions, got %s", kindName(n))
	}
	out := make([]story.Assertion, 0, len(n.Content))
	for _, item := range n.Content {
		mn, err := newMapNode(file, item)
		if err != nil {
			return nil, err
		}
		a, err := parseAssertion(file, mn)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// checkUniqueStepIDs enforces spec.md §3's invariant: "Within a Story,
// step-ids are unique."
func checkUniqueStepIDs(s *story.Story) error {
	seen := map[string]bool{}
	check := func(id string, loc story.SourceLocation) error {
		if id == "" {
			return nil
		}
		if seen[id] {
			return newParseErrorToken(loc, id, "duplicate step-id")
		}
		seen[id] = true
		return nil
	}
	for _, a := range s.Setup {
		if err := check(a.StepID, a.Loc); err != nil {
			return err
		}
	}
	for _, a := range s.Steps {
		if err := check(a.StepID, a.Loc); err != nil {
			return err
		}
	}
	for _, a := range s.Assertions {
		if err := check(a.StepID, a.Loc); err != nil {
			return err
		}
	}
	for _, a := range s.Cleanup {
		if err := check(a.StepID, a.Loc); err != nil {
			return err
		}
	}
	return nil
}

func withFile(err error, file string) error {
	if pe, ok := err.(*ParseError); ok && pe.File == "" {
		pe.File = file
		pe.Loc.File = file
	}
	return err
}
