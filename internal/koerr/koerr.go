// Package koerr defines the typed error taxonomy shared by every component
// of the orchestrator, so that a step record can always carry a stable
// machine-readable kind alongside its human message.
package koerr

import (
	"errors"
	"fmt"
)

// Kind is one of the closed set of error categories a step or assertion
// can fail with.
type Kind string

const (
	// KindParse covers malformed YAML or an unknown action/assertion kind.
	KindParse Kind = "ParseError"
	// KindConfig covers missing or invalid backend configuration.
	KindConfig Kind = "Config"
	// KindBackendTransport covers TCP/HTTP I/O failure after retries.
	KindBackendTransport Kind = "BackendTransport"
	// KindBackendProtocol covers a response that violates the expected shape.
	KindBackendProtocol Kind = "BackendProtocol"
	// KindCapabilityUnavailable covers a client-plane action against the
	// console-only backend.
	KindCapabilityUnavailable Kind = "CapabilityUnavailable"
	// KindTimeout covers a per-action deadline exceeded.
	KindTimeout Kind = "Timeout"
	// KindReferenceUnbound covers a reference expression naming an unknown
	// variable or step-id.
	KindReferenceUnbound Kind = "ReferenceUnbound"
	// KindValidationFailed covers an expect* validator mismatch.
	KindValidationFailed Kind = "ValidationFailed"
	// KindAssertionFailed covers an assertion that evaluated to false.
	KindAssertionFailed Kind = "AssertionFailed"
	// KindCancelled covers external cancellation.
	KindCancelled Kind = "Cancelled"
)

// Error is the carrier type threaded through step records. It satisfies the
// standard error interface and unwraps to the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Action  string
	Channel string
	Cause   error
}

func (e *Error) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s: %s (action=%s)", e.Kind, e.Message, e.Action)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the cause.
func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given kind with no action/channel context yet;
// callers typically chain WithAction/WithChannel before recording it.
func New(kind Kind, message string, args ...any) *Error {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind that carries cause as its Unwrap
// target and Cause.Error() as additional Detail.
func Wrap(kind Kind, cause error, message string, args ...any) *Error {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return &Error{Kind: kind, Message: message, Detail: detail, Cause: cause}
}

// WithAction returns a copy of e annotated with the action name.
func (e *Error) WithAction(name string) *Error {
	c := *e
	c.Action = name
	return &c
}

// WithChannel returns a copy of e annotated with the channel (server/client/op).
func (e *Error) WithChannel(channel string) *Error {
	c := *e
	c.Channel = channel
	return &c
}

// WithDetail returns a copy of e with additional free-form detail attached.
func (e *Error) WithDetail(detail string) *Error {
	c := *e
	c.Detail = detail
	return &c
}

// KindOf extracts the Kind of err if it is (or wraps) a *Error, and
// returns ("", false) otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err is (or wraps) a *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
