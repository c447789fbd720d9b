package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The set is closed: callers switch over it exhaustively.
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindTransport  Kind = "transport"   // connection, DNS, TLS, interrupted stream
	KindHTTPStatus Kind = "http_status" // non-2xx response
	KindParse      Kind = "parse"       // malformed payload
	KindAuth       Kind = "auth"        // invalid/expired token, device flow denied or expired
	KindDomain     Kind = "domain"      // bad identifier, bad URL, unsupported platform or extension
	KindProcess    Kind = "process"     // child process failed to start or exited non-zero
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindTransport, KindHTTPStatus, KindParse, KindAuth, KindDomain, KindProcess:
		return true
	}
	return false
}

// Error carries a Kind plus the operation that failed.
// StatusCode is set for KindHTTPStatus and for KindAuth failures caused by a response.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with a kind and operation name.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a failure with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf walks the error chain and returns the first kind found.
// A kind outside the closed set reads as KindUnknown.
func KindOf(err error) Kind {
	var f *Error
	if errors.As(err, &f) && f.Kind.IsValid() {
		return f.Kind
	}
	return KindUnknown
}

// Is reports whether err (or its chain) carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCodeOf returns the HTTP status attached to err, or 0.
func StatusCodeOf(err error) int {
	var f *Error
	if errors.As(err, &f) {
		return f.StatusCode
	}
	return 0
}
