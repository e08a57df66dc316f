package domain

import "errors"

// Sentinel errors naming engine-level outcomes. The engine's handlers
// report these outcomes as REJECTED responses or logged no-ops and do
// not return these values; none of them ever appears on the wire.
var (
	ErrUnknownOrder   = errors.New("order_not_found")
	ErrDuplicateOrder = errors.New("order_id_already_exists")
	ErrInvalidSide    = errors.New("invalid_side")
)

// FrameError represents a malformed inbound frame: a non-numeric token,
// a missing token, or a buffer that ran out before all fields were read.
type FrameError struct {
	Message string
}

func (e *FrameError) Error() string {
	return e.Message
}
