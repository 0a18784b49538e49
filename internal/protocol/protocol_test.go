package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dkeye/Meet/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestDecode_Join(t *testing.T) {
	req := require.New(t)

	in, err := Decode([]byte(`{"type":"join","sessionId":"abcd1234","displayName":"Alice"}`))
	req.NoError(err)

	join, ok := in.(Join)
	req.True(ok)
	req.Equal(KindJoin, join.Kind())
	req.Equal(domain.SessionID("abcd1234"), join.SessionID)
	req.Equal("Alice", join.DisplayName)
}

func TestDecode_RejectsMissingFields(t *testing.T) {
	cases := map[string]string{
		"join without session":   `{"type":"join","displayName":"Alice"}`,
		"join without name":      `{"type":"join","sessionId":"abcd1234"}`,
		"message without text":   `{"type":"message","sessionId":"abcd1234"}`,
		"offer without target":   `{"type":"offer","payload":{"sdp":"v=0"}}`,
		"offer without payload":  `{"type":"offer","to":"c2"}`,
		"candidate null payload": `{"type":"ice-candidate","to":"c2","payload":null}`,
		"join name too long":     `{"type":"join","sessionId":"abcd1234","displayName":"` + strings.Repeat("x", 37) + `"}`,
		"not json":               `{"type":`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw))
			require.ErrorIs(t, err, ErrBadPayload)
		})
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"teleport"}`))
	require.ErrorIs(t, err, ErrUnknownType)

	_, err = Decode([]byte(`{}`))
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestDecode_NegotiationKinds(t *testing.T) {
	req := require.New(t)
	for _, kind := range []Kind{KindOffer, KindAnswer, KindCandidate} {
		in, err := Decode([]byte(`{"type":"` + string(kind) + `","to":"c2","payload":"opaque"}`))
		req.NoError(err)
		n, ok := in.(Negotiation)
		req.True(ok)
		req.Equal(kind, n.Kind())
		req.Equal(domain.ConnID("c2"), n.To)
		req.Equal(`"opaque"`, string(n.Payload))
	}
}

func TestEncodeNegotiation_PayloadIsVerbatim(t *testing.T) {
	req := require.New(t)
	payloads := []string{
		`{"type":"offer", "sdp":"v=0\r\no=- 1 2 IN IP4 127.0.0.1\r\n"}`,
		`{ "candidate" : "candidate:1 1 udp 2122260223 10.0.0.2 54321 typ host", "sdpMid":"0" }`,
		`"<html>&amp;"`,
		`[1, 2,   3]`,
		`42`,
	}
	for _, raw := range payloads {
		// Given a payload that went through inbound decoding
		in, err := Decode([]byte(`{"type":"offer","to":"c2","payload":` + raw + `}`))
		req.NoError(err)
		n := in.(Negotiation)

		// When it is re-encoded for the target
		out, err := EncodeNegotiation(n.Kind(), "c1", n.Payload)
		req.NoError(err)

		// Then the payload bytes are unchanged and from names the sender
		req.Equal(`{"type":"offer","from":"c1","payload":`+raw+`}`, string(out))
		var env struct {
			Type Kind            `json:"type"`
			From domain.ConnID   `json:"from"`
			Raw  json.RawMessage `json:"payload"`
		}
		req.NoError(json.Unmarshal(out, &env))
		req.Equal(domain.ConnID("c1"), env.From)
	}
}

func TestNewParticipants_EmptyRosterEncodesAsArray(t *testing.T) {
	req := require.New(t)
	b, err := json.Marshal(NewParticipants("abcd1234", nil))
	req.NoError(err)
	req.JSONEq(`{"type":"participants","sessionId":"abcd1234","participants":[]}`, string(b))
}

func TestNewUserJoined_MarksReceiverAsInitiator(t *testing.T) {
	req := require.New(t)
	b, err := json.Marshal(NewUserJoined("abcd1234", domain.Participant{ConnID: "c2", DisplayName: "B"}))
	req.NoError(err)
	req.JSONEq(`{"type":"user-joined","sessionId":"abcd1234","connectionId":"c2","displayName":"B","initiate":true}`, string(b))

	b, err = json.Marshal(NewUserLeft("abcd1234", domain.Participant{ConnID: "c2", DisplayName: "B"}))
	req.NoError(err)
	req.JSONEq(`{"type":"user-left","sessionId":"abcd1234","connectionId":"c2","displayName":"B"}`, string(b))
}
