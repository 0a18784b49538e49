package protocol

import (
	"encoding/json"

	"github.com/dkeye/Meet/internal/domain"
)

const (
	KindWelcome      Kind = "welcome"
	KindParticipants Kind = "participants"
	KindUserJoined   Kind = "user-joined"
	KindUserLeft     Kind = "user-left"
	KindError        Kind = "error"
	KindPong         Kind = "pong"
)

// Error codes carried by KindError envelopes.
const (
	CodeUnknownSession = "unknown_session"
	CodeInvalidName    = "invalid_name"
	CodeBadPayload     = "bad_payload"
	CodeUnknownType    = "unknown_type"
	CodeRateLimited    = "rate_limited"
	CodeUnavailable    = "unavailable"
)

type Welcome struct {
	Type   Kind          `json:"type"`
	ConnID domain.ConnID `json:"connectionId"`
}

type Participants struct {
	Type         Kind                 `json:"type"`
	SessionID    domain.SessionID     `json:"sessionId"`
	Participants []domain.Participant `json:"participants"`
}

// Presence announces a joined or departed participant. Initiate is set on
// user-joined: receivers are expected to send the offer to the newcomer.
type Presence struct {
	Type        Kind             `json:"type"`
	SessionID   domain.SessionID `json:"sessionId"`
	ConnID      domain.ConnID    `json:"connectionId"`
	DisplayName string           `json:"displayName"`
	Initiate    bool             `json:"initiate,omitempty"`
}

type Message struct {
	Type        Kind             `json:"type"`
	SessionID   domain.SessionID `json:"sessionId"`
	ConnID      domain.ConnID    `json:"connectionId"`
	DisplayName string           `json:"displayName"`
	Text        string           `json:"text"`
}

type Error struct {
	Type    Kind   `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Pong struct {
	Type Kind `json:"type"`
}

type Identity struct {
	Type        Kind             `json:"type"`
	ConnID      domain.ConnID    `json:"connectionId"`
	SessionID   domain.SessionID `json:"sessionId,omitempty"`
	DisplayName string           `json:"displayName,omitempty"`
}

func NewWelcome(cid domain.ConnID) Welcome {
	return Welcome{Type: KindWelcome, ConnID: cid}
}

func NewParticipants(sid domain.SessionID, ps []domain.Participant) Participants {
	if ps == nil {
		ps = []domain.Participant{}
	}
	return Participants{Type: KindParticipants, SessionID: sid, Participants: ps}
}

func NewUserJoined(sid domain.SessionID, p domain.Participant) Presence {
	return Presence{Type: KindUserJoined, SessionID: sid, ConnID: p.ConnID, DisplayName: p.DisplayName, Initiate: true}
}

func NewUserLeft(sid domain.SessionID, p domain.Participant) Presence {
	return Presence{Type: KindUserLeft, SessionID: sid, ConnID: p.ConnID, DisplayName: p.DisplayName}
}

func NewMessage(sid domain.SessionID, from domain.Participant, text string) Message {
	return Message{Type: KindMessage, SessionID: sid, ConnID: from.ConnID, DisplayName: from.DisplayName, Text: text}
}

func NewError(code, msg string) Error {
	return Error{Type: KindError, Code: code, Message: msg}
}

func NewPong() Pong { return Pong{Type: KindPong} }

func NewIdentity(cid domain.ConnID, sid domain.SessionID, name string) Identity {
	return Identity{Type: KindWhoAmI, ConnID: cid, SessionID: sid, DisplayName: name}
}

// EncodeNegotiation builds {"type":kind,"from":from,"payload":<payload>}
// splicing payload in verbatim. encoding/json would re-compact and escape it.
func EncodeNegotiation(kind Kind, from domain.ConnID, payload json.RawMessage) ([]byte, error) {
	head, err := json.Marshal(struct {
		Type Kind          `json:"type"`
		From domain.ConnID `json:"from"`
	}{kind, from})
	if err != nil {
		return nil, err
	}
	const key = `,"payload":`
	buf := make([]byte, 0, len(head)+len(key)+len(payload))
	buf = append(buf, head[:len(head)-1]...)
	buf = append(buf, key...)
	buf = append(buf, payload...)
	buf = append(buf, '}')
	return buf, nil
}
