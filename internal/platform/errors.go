package platform

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Kind classifies platform failures
type Kind string

const (
	KindUnknown           Kind = "unknown"
	KindNotFound          Kind = "not_found"
	KindPermissionDenied  Kind = "permission_denied"
	KindTransientIO       Kind = "transient_io"
	KindResourceExhausted Kind = "resource_exhausted"
	KindUnsupported       Kind = "unsupported"
)

// Error is a classified platform failure
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a classified error
func Errorf(kind Kind, op string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies err under kind. A nil err stays nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// NotFound is shorthand for a KindNotFound error
func NotFound(op, what string) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf("%s not found", what)}
}

// KindOf classifies any error. Well known stdlib errors are mapped as well.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	var ue *UnsupportedPlatformError
	switch {
	case errors.As(err, &ue):
		return KindUnsupported
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return KindTransientIO
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return KindTransientIO
	}
	return KindUnknown
}

// IsNotFound reports whether err is classified as KindNotFound
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
