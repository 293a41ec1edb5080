package autograd

import "errors"

var (
	// ErrDomain is returned when an operation is undefined for its input,
	// such as the log of a non-positive number.
	ErrDomain = errors.New("autograd: input outside operation domain")

	// ErrDetached is returned for the zero Value, which belongs to no graph.
	ErrDetached = errors.New("autograd: value is not attached to a graph")

	// ErrForeignValue is returned when operands belong to different graphs.
	ErrForeignValue = errors.New("autograd: operands belong to different graphs")

	// ErrStaleValue is returned for a handle whose node was dropped by Truncate.
	ErrStaleValue = errors.New("autograd: value was truncated from its graph")
)
