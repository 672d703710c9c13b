package db

import "errors"

// ErrNoUser is returned when an operation requires an application user
// identity and none was supplied. It is the one condition sync callers see
// as an explicit error instead of a fallback.
var ErrNoUser = errors.New("no application user")
