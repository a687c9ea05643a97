package publisher

import (
	"errors"

	"github.com/cryptovibes/cryptovibes/pkg/errlvl"
)

var (
	errTelegramAuth        = errors.New("telegram authentication failed")
	errTelegramSend        = errors.New("telegram send failed")
	errTypefullyNoKey      = errors.New("typefully api key is empty")
	errTypefullyRequest    = errors.New("typefully request failed")
	errTypefullyStatus     = errors.New("typefully returned a non-2xx status")
	errTypefullyNoSocialID = errors.New("no social sets available for this account")
)

// Error is a custom error type that contains the severity level of the error.
type Error struct {
	// severity level of the error
	level errlvl.Lvl
	// errors stack (preferably generic error + the real error)
	errs []error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if len(e.errs) == 1 {
		return errlvl.Wrap(e.errs[0], e.level).Error()
	}

	return errlvl.Wrap(errors.Join(e.errs...), e.level).Error()
}

// Unwrap exposes the wrapped errors to errors.Is checks.
func (e *Error) Unwrap() []error {
	return e.errs
}

// newError creates a new Error instance with the given errors.
func newError(lvl errlvl.Lvl, errs ...error) *Error {
	return &Error{
		level: lvl,
		errs:  errs,
	}
}
