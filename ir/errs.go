package ir

import "errors"

var (
	ErrBadIndex     = errors.New("bad array index")
	ErrNotContainer = errors.New("not a container")
)
