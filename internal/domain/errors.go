package domain

import "errors"

var ErrNotFound = errors.New("not found")

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("invalid record")
