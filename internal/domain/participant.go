package domain

// Participant is one live roster entry. ConnID is the dedup key.
type Participant struct {
	ConnID      ConnID `json:"connectionId"`
	DisplayName string `json:"displayName"`
}
