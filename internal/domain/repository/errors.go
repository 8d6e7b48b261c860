package repository

import "errors"

// ErrDuplicateKey is wrapped around unique constraint violations
var ErrDuplicateKey = errors.New("duplicate key")
