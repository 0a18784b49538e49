// Package protocol defines the JSON envelopes exchanged over the signaling
// channel. Inbound envelopes are decoded once into a closed set of types;
// anything else is rejected.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/Meet/internal/domain"
	"github.com/go-playground/validator/v10"
)

type Kind string

const (
	KindJoin      Kind = "join"
	KindLeave     Kind = "leave"
	KindMessage   Kind = "message"
	KindOffer     Kind = "offer"
	KindAnswer    Kind = "answer"
	KindCandidate Kind = "ice-candidate"
	KindPing      Kind = "ping"
	KindWhoAmI    Kind = "whoami"
)

var (
	ErrUnknownType = errors.New("unknown envelope type")
	ErrBadPayload  = errors.New("bad payload")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Inbound is implemented only by the envelope types in this package.
type Inbound interface {
	Kind() Kind
	inbound()
}

type Join struct {
	SessionID   domain.SessionID `json:"sessionId" validate:"required,max=64"`
	DisplayName string           `json:"displayName" validate:"required,max=36"`
}

type Leave struct {
	SessionID   domain.SessionID `json:"sessionId" validate:"required,max=64"`
	DisplayName string           `json:"displayName" validate:"max=36"`
}

// Chat carries a text message. DisplayName is informational; the relay
// uses the roster name of the sending connection.
type Chat struct {
	SessionID   domain.SessionID `json:"sessionId" validate:"required,max=64"`
	DisplayName string           `json:"displayName" validate:"max=36"`
	Text        string           `json:"text" validate:"required,max=4096"`
}

// Negotiation is an offer, answer or ICE candidate addressed to one peer.
// Payload is kept as raw bytes and never inspected.
type Negotiation struct {
	Type    Kind            `json:"-"`
	To      domain.ConnID   `json:"to" validate:"required,max=64"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

type Ping struct{}

type WhoAmI struct{}

func (Join) Kind() Kind          { return KindJoin }
func (Leave) Kind() Kind         { return KindLeave }
func (Chat) Kind() Kind          { return KindMessage }
func (n Negotiation) Kind() Kind { return n.Type }
func (Ping) Kind() Kind          { return KindPing }
func (WhoAmI) Kind() Kind        { return KindWhoAmI }

func (Join) inbound()        {}
func (Leave) inbound()       {}
func (Chat) inbound()        {}
func (Negotiation) inbound() {}
func (Ping) inbound()        {}
func (WhoAmI) inbound()      {}

// Decode parses one inbound frame.
func Decode(data []byte) (Inbound, error) {
	var env struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	switch env.Type {
	case KindJoin:
		return decodeAs[Join](data)
	case KindLeave:
		return decodeAs[Leave](data)
	case KindMessage:
		return decodeAs[Chat](data)
	case KindOffer, KindAnswer, KindCandidate:
		n, err := decodeInto[Negotiation](data)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(bytes.TrimSpace(n.Payload), []byte("null")) {
			return nil, fmt.Errorf("%w: %s payload is null", ErrBadPayload, env.Type)
		}
		n.Type = env.Type
		return n, nil
	case KindPing:
		return Ping{}, nil
	case KindWhoAmI:
		return WhoAmI{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func decodeAs[T Inbound](data []byte) (Inbound, error) {
	v, err := decodeInto[T](data)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func decodeInto[T any](data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if err := validate.Struct(v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return v, nil
}
