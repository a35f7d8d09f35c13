package property

import "errors"

// Sentinel errors matching the closed error-code enum of spec.md §6-§7.
// Callers compare with errors.Is; internal/graph translates these into the
// graph package's ErrorCode at the public-operation boundary.
var (
	ErrRange          = errors.New("property: value out of range")
	ErrTypeMismatch   = errors.New("property: type mismatch")
	ErrReadOnly       = errors.New("property: read-only")
	ErrCannotAutomate = errors.New("property: does not support automation")
)
