package parser

import (
	"fmt"

	"mctest/internal/story"
)

// ParseError is returned by Parse when the YAML document is malformed,
// references an unknown action/assertion kind, or is missing a field the
// matched kind requires.
type ParseError struct {
	File    string
	Loc     story.SourceLocation
	Message string
	// Token carries the offending literal (e.g. the unrecognized action
	// kind token) when relevant, so callers can surface it verbatim.
	Token string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s: %s: %q", e.Loc, e.Message, e.Token)
	}
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

func newParseError(loc story.SourceLocation, format string, args ...any) *ParseError {
	return &ParseError{Loc: loc, Message: fmt.Sprintf(format, args...)}
}

func newParseErrorToken(loc story.SourceLocation, token string, format string, args ...any) *ParseError {
	return &ParseError{Loc: loc, Message: fmt.Sprintf(format, args...), Token: token}
}
