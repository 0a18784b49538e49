package domain

import (
	"strings"

	"github.com/google/uuid"
)

const meetingCodeLen = 8

type (
	// ConnID identifies one real-time channel for the lifetime of the process.
	ConnID string
	// SessionID is the opaque meeting code shared by participants.
	SessionID string
)

func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

// NewSessionID returns a short meeting code, e.g. "3f2a9c1b".
func NewSessionID() SessionID {
	return SessionID(strings.ReplaceAll(uuid.NewString(), "-", "")[:meetingCodeLen])
}
