package commands

import "errors"

// ErrCommandCancelled is joined with the context error when a handler is
// called with a context that is already done.
var ErrCommandCancelled = errors.New("command cancelled")
