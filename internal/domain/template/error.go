package template

import "errors"

var (
	ErrNotFound = errors.New("template not found")
)
