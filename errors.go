package gmat

import (
	"errors"
	"fmt"

	"github.com/Nikolay2015/GMAT-unicode-sub002/ephemeris"
)

var (
	// ErrConfiguration is returned when a component is missing a collaborator or a body lookup fails.
	ErrConfiguration = errors.New("configuration error")
	// ErrOutOfRange is returned when an epoch falls outside of the available ephemeris.
	ErrOutOfRange = ephemeris.ErrOutOfRange
	// ErrNumericalConsistency is returned when a computed result violates a numerical invariant.
	ErrNumericalConsistency = errors.New("numerical consistency error")
	// ErrInvalidParameter is returned when a setter is given an invalid value.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ErrorKind classifies an Error.
type ErrorKind uint8

const (
	ConfigurationError ErrorKind = iota + 1
	OutOfRangeError
	NumericalConsistencyError
	InvalidParameterError
)

func (k ErrorKind) sentinel() error {
	switch k {
	case ConfigurationError:
		return ErrConfiguration
	case OutOfRangeError:
		return ErrOutOfRange
	case NumericalConsistencyError:
		return ErrNumericalConsistency
	case InvalidParameterError:
		return ErrInvalidParameter
	}
	return nil
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is returned by the operations of this package. It matches the
// sentinel of its kind with errors.Is, and unwraps to its cause.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target is the sentinel of this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind ErrorKind, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// wrapError classifies a collaborator error. Ephemeris span violations are out of range errors.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	kind := ConfigurationError
	if errors.Is(err, ephemeris.ErrOutOfRange) {
		kind = OutOfRangeError
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
