package assistant

import "errors"

// ErrEmptyMessage is returned for whitespace-only input. Delivery
// drops such events without pushing a reply.
var ErrEmptyMessage = errors.New("empty message")
