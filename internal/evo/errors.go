package evo

import "errors"

var (
	// ErrInvalidArgument reports a caller-supplied value an operator cannot
	// work with: mismatched genome lengths, an empty genome, a non-positive size.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState reports a population whose fitness weights make
	// proportional sampling impossible.
	ErrInvalidState = errors.New("invalid state")
)
