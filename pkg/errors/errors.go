// Package errors provides structured error handling for the Ironwood framework.
//
// Errors raised by the message algebra, the scheduler and the extraction
// pipeline are reported as *Error values carrying an ErrorKind. Each kind has
// a sentinel so callers can match with the standard library:
//
//	if errors.Is(err, ironerrors.ErrRecursionLimitExceeded) { ... }
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindRecursionLimit indicates Batch/Conditional nesting beyond the guard.
	KindRecursionLimit
	// KindAsyncTask indicates an asynchronous transform failed.
	KindAsyncTask
	// KindExtraction indicates a view or IR node that cannot be lowered or interpreted.
	KindExtraction
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates invalid configuration.
	KindConfig
	// KindShutdown indicates work submitted after the scheduler stopped.
	KindShutdown
)

func (k ErrorKind) String() string {
	switch k {
	case KindRecursionLimit:
		return "recursion_limit"
	case KindAsyncTask:
		return "async_task"
	case KindExtraction:
		return "extraction"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	case KindShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind that callers are expected to match.
var (
	ErrRecursionLimitExceeded = stderrors.New("recursion limit exceeded")
	ErrAsyncTaskFailed        = stderrors.New("async task failed")
	ErrExtractionUnsupported  = stderrors.New("extraction unsupported")
	ErrShuttingDown           = stderrors.New("scheduler is shutting down")
	ErrInvalidConfig          = stderrors.New("invalid configuration")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindRecursionLimit:
		return ErrRecursionLimitExceeded
	case KindAsyncTask:
		return ErrAsyncTaskFailed
	case KindExtraction:
		return ErrExtractionUnsupported
	case KindShutdown:
		return ErrShuttingDown
	case KindConfig:
		return ErrInvalidConfig
	default:
		return nil
	}
}

// Error represents a structured error in the Ironwood framework.
type Error struct {
	// Op is the operation that failed (e.g., "message.Apply").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Key is the IR key or view path involved, if applicable.
	Key string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

// New builds an *Error for op and kind wrapping err.
func New(op string, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Newf is New with a formatted underlying error.
func Newf(op string, kind ErrorKind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s [%s] key=%s: %v", e.Op, e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	var p *PanicError
	if stderrors.As(err, &p) {
		return KindPanic
	}
	return KindUnknown
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "message.Pure").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the Ironwood framework.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
