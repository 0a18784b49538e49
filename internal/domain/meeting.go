package domain

import "time"

// Meeting is the durable record a session code points at.
// Participants holds display names as recorded through the REST API;
// the live roster is owned by the room registry, not by this record.
type Meeting struct {
	ID           SessionID `json:"meetingId"`
	CreatedBy    string    `json:"createdBy"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasParticipant reports whether name is already recorded.
func (m *Meeting) HasParticipant(name string) bool {
	for _, p := range m.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// AddParticipant appends name once.
func (m *Meeting) AddParticipant(name string) {
	if m.HasParticipant(name) {
		return
	}
	m.Participants = append(m.Participants, name)
}

func (m *Meeting) RemoveParticipant(name string) {
	out := m.Participants[:0]
	for _, p := range m.Participants {
		if p != name {
			out = append(out, p)
		}
	}
	m.Participants = out
}
