package services

import "errors"

// ErrInvalidRequest marks input the caller should fix.
var ErrInvalidRequest = errors.New("invalid request")
