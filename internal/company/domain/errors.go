package domain

import "errors"

var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidRegime     = errors.New("invalid_regime")
	ErrInvalidTransition = errors.New("invalid_transition")
)
