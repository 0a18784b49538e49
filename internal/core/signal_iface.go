package core

import "github.com/dkeye/Meet/internal/domain"

// Frame is one encoded outbound envelope.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	ID() domain.ConnID
	TrySend(Frame) error
	Close()
}

// Sender delivers frames to connections by identity.
// Delivery is best-effort: a missing or closed target is dropped by the
// implementation and never reported to the caller.
type Sender interface {
	Send(to domain.ConnID, f Frame)
}
