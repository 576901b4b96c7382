package xerrors

import (
	"errors"
	"fmt"
)

const (
	ErrCodeSuccess uint32 = iota
	ErrCodeOrdinary
	ErrCodeOverflow
	ErrCodeDivisByZero
	ErrCodeDomain
	ErrCodeParse
	ErrCodeIndexOutOfRange
	ErrCodeInvalidDecimals
	ErrCodeDecimalsMismatch
	ErrLast
)

var (
	ErrCommon = New(ErrCodeOrdinary, "fxnum error")

	// ErrOverflow is returned when an exact or intermediate result cannot be
	// represented in the 128-bit scaled integer at the configured decimals.
	ErrOverflow = New(ErrCodeOverflow, "overflow")

	// ErrDivisByZero is returned when a denominator is exactly zero.
	ErrDivisByZero = New(ErrCodeDivisByZero, "division by zero")

	// ErrDomain is returned for inputs outside a function's mathematical
	// domain, e.g. ln/pow of a non-positive base or sqrt of a negative.
	ErrDomain = New(ErrCodeDomain, "domain error")

	// ErrParse is returned for malformed textual input.
	ErrParse = New(ErrCodeParse, "parse error")

	// ErrIndexOutOfRange reports a defensive lookup-table access violation.
	// Observing it means the range reduction logic is defective.
	ErrIndexOutOfRange = New(ErrCodeIndexOutOfRange, "lookup index out of range")

	// ErrInvalidDecimals is returned when the decimal-place count is outside
	// the recognized range at construction.
	ErrInvalidDecimals = New(ErrCodeInvalidDecimals, "invalid decimals")

	// ErrDecimalsMismatch is returned when two values with different decimal
	// places meet without an explicit rescale.
	ErrDecimalsMismatch = New(ErrCodeDecimalsMismatch, "decimals mismatch")
)

type XError interface {
	Code() uint32
	Cause() error
	Error() string
	Msg() string
	Wrap(error) XError
	Wrapf(string, ...any) XError
	Contains(XError) bool
	Equal(XError) bool
}

type xerror struct {
	code  uint32
	msg   string
	cause error
}

func New(code uint32, msg string) XError {
	return &xerror{
		code: code,
		msg:  msg,
	}
}

func NewOrdinary(msg string) XError {
	return &xerror{
		code: ErrCodeOrdinary,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xerr, ok := err.(XError); ok {
		return xerr
	}
	return NewOrdinary(err.Error())
}

func Wrap(err error, msg string) XError {
	return &xerror{
		code:  ErrCodeOrdinary,
		msg:   msg,
		cause: err,
	}
}

func (xerr *xerror) Code() uint32 {
	return xerr.code
}

func (xerr *xerror) Error() string {
	msg := xerr.msg

	if xerr.cause != nil {
		msg += "\n\t" + xerr.cause.Error()
	}

	return msg
}

func (xerr *xerror) Msg() string {
	return xerr.msg
}

func (xerr *xerror) Cause() error {
	return xerr.cause
}

func (xerr *xerror) Wrap(err error) XError {
	if xerr.cause != nil {
		if cerr, ok := xerr.cause.(*xerror); ok {
			return &xerror{
				code:  xerr.code,
				msg:   xerr.msg,
				cause: cerr.Wrap(err),
			}
		}
	}
	return &xerror{
		code:  xerr.code,
		msg:   xerr.msg,
		cause: err,
	}
}

func (xerr *xerror) Wrapf(format string, args ...any) XError {
	return xerr.Wrap(New(ErrCodeOrdinary, fmt.Sprintf(format, args...)))
}

func (xerr *xerror) Contains(other XError) bool {
	if xerr.code == other.Code() && xerr.msg == other.Msg() {
		return true
	} else if xerr.cause != nil {
		if _xerr, ok := xerr.cause.(*xerror); ok {
			return _xerr.Contains(other)
		} else {
			return errors.Is(xerr.cause, other)
		}
	}
	return false
}

func (xerr *xerror) Equal(other XError) bool {
	return xerr.code == other.Code()
}
