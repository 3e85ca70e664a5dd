package game

import (
	"errors"
	"fmt"
)

// Error classes. Commands wrap one of these so transports can map a failure
// to a status without string matching: validation and configuration errors
// leave the session untouched, invariant violations abort it.
var (
	ErrValidation    = errors.New("validation_error")
	ErrInvariant     = errors.New("invariant_violation")
	ErrShoeExhausted = errors.New("shoe_exhausted")
	ErrConfiguration = errors.New("configuration_error")
)

var (
	ErrWrongState        = fmt.Errorf("%w: wrong_state", ErrValidation)
	ErrBetOutOfRange     = fmt.Errorf("%w: bet_out_of_range", ErrValidation)
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient_funds", ErrValidation)
	ErrCannotHit         = fmt.Errorf("%w: cannot_hit", ErrValidation)
	ErrCannotDouble      = fmt.Errorf("%w: cannot_double", ErrValidation)
	ErrCannotSplit       = fmt.Errorf("%w: cannot_split", ErrValidation)
	ErrCannotSurrender   = fmt.Errorf("%w: cannot_surrender", ErrValidation)
	ErrCannotInsure      = fmt.Errorf("%w: cannot_insure", ErrValidation)
)
