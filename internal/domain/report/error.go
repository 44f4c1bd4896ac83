package report

import "errors"

var (
	ErrNotFound         = errors.New("report not found")
	ErrAlreadySubmitted = errors.New("report already submitted")
	ErrInvalidSeverity  = errors.New("invalid severity")
	ErrMissingFields    = errors.New("missing required fields")
)
