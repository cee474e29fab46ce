package core

import (
	"errors"
)

var (
	// ErrResourceNotLoaded indicates a resource handle whose data has not
	// finished streaming in yet. Callers should retry on a later frame.
	ErrResourceNotLoaded = errors.New("resource not yet loaded")
	ErrUnknown           = errors.New("unknown")
)
