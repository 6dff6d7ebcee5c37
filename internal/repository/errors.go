// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service and handlers to distinguish between different failure
// scenarios without inspecting driver errors. For example,
// ErrInsufficientCapacity signals that a seat decrement was refused
// because the trip does not have enough places left, while
// ErrEmailExists marks a signup with an already registered address.
package repository

import "errors"

// ErrInsufficientCapacity is returned when a requested seat count
// exceeds the trip's current availability. The guarded UPDATE leaves
// state untouched in that case. Handlers should translate this into
// an HTTP 409 response.
var ErrInsufficientCapacity = errors.New("insufficient capacity")
