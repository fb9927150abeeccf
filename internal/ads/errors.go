// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"errors"
	"fmt"
)

// Kind classifies a failure returned by the ADS clients.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig is a caller bug: an unsupported export format or an empty
	// identifier list. It is raised before any request is sent.
	KindConfig
	// KindTransport covers connection, DNS, timeout, and cancellation failures.
	KindTransport
	// KindNotFound means the search returned no records.
	KindNotFound
	// KindResponseParse covers non-2xx statuses, malformed JSON, and missing fields.
	KindResponseParse
)

// String returns the kind name used in log fields and reports.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not_found"
	case KindResponseParse:
		return "response_parse"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind. Match with errors.Is.
var (
	ErrConfig        = errors.New("invalid request")
	ErrTransport     = errors.New("transport failure")
	ErrNotFound      = errors.New("paper not found")
	ErrResponseParse = errors.New("unexpected response")
)

func (k Kind) sentinel() error {
	switch k {
	case KindConfig:
		return ErrConfig
	case KindTransport:
		return ErrTransport
	case KindNotFound:
		return ErrNotFound
	case KindResponseParse:
		return ErrResponseParse
	default:
		return nil
	}
}

// Error is the typed error returned by Search and Export.
type Error struct {
	Kind Kind
	// Op names the operation, e.g. "search" or "export bibtex".
	Op string
	// StatusCode is set for KindResponseParse errors caused by an HTTP status.
	StatusCode int
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Op != "" {
		msg = "ads " + e.Op + ": " + msg
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause so errors.Is can reach context errors.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func configError(op, format string, args ...any) error {
	return &Error{Kind: KindConfig, Op: op, Err: fmt.Errorf(format, args...)}
}

func transportError(op string, err error) error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

func parseError(op string, status int, err error) error {
	return &Error{Kind: KindResponseParse, Op: op, StatusCode: status, Err: err}
}
