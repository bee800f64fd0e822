package errors

import (
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors. Their codes are part of the ABCI responses and must not
// change.
var (
	// ErrNotFound is returned for a missing record, funder or query path.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned when a transaction carries no usable message.
	ErrMsg = Register(4, "invalid message")

	// ErrDuplicate is returned when a record key is already taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when the code is used against its contract, like
	// registering a record on an upgraded root.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a value fails a not empty assertion
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when stored data is in an invalid state
	ErrState = Register(10, "invalid state")

	// ErrType is returned whenever the type is not what was expected
	ErrType = Register(11, "invalid type")

	// ErrAmount is returned for an amount that cannot be parsed or used.
	ErrAmount = Register(13, "invalid amount")

	// ErrInput stands for general input problems indication
	ErrInput = Register(14, "invalid input")

	// ErrOverflow is returned when a balance or the nonce would exceed its
	// type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrSchema is returned when stored data carries a schema version the
	// code does not know.
	ErrSchema = Register(17, "invalid schema version")

	// ErrDatabase is returned when the underlying store misbehaves.
	ErrDatabase = Register(18, "database error")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// usedCodes maps every registered code to its root error. Code 1 is kept
// for internal errors.
var usedCodes = map[uint32]*Error{1: nil}

// Register declares a root error. Registering a code twice panics, so call
// it only while the program starts.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %v", code, e))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// Error is a root error. Every error returned at runtime wraps one, which
// gives the client its ABCI code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the code this error is reported with.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with formatting.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is returns true if err is kind or wraps it. A nil kind only matches a
// nil error.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return errIsNil(err)
	}
	return walk(err, func(e error) bool { return e == kind })
}

// walk calls fn with err and every error it wraps, until fn returns true.
func walk(err error, fn func(error) bool) bool {
	for err != nil {
		if fn(err) {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the stack recorded by err or any error it wraps.
func stackTrace(err error) errors.StackTrace {
	var st errors.StackTrace
	walk(err, func(e error) bool {
		if t, ok := e.(stackTracer); ok {
			st = t.StackTrace()
			return true
		}
		return false
	})
	return st
}

// Wrap adds description to err. The innermost wrap records the stack
// trace. Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithType wraps err with the type name of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// Recover turns a panic into an ErrPanic assigned to err. Call it with
// defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format supports %s, %q, %v which appends the place the error was
// created at, and %+v which prints the whole stack trace.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		fmt.Fprintf(s, "%s\n%+v", e.msg, e.parent)
	case verb == 'v' && len(stackTrace(e)) > 0:
		fmt.Fprintf(s, "%s [%v]", e.Error(), stackTrace(e)[0])
	case verb == 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		io.WriteString(s, e.Error())
	}
}

// errIsNil is true for nil and for a nil pointer stored in an error.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
