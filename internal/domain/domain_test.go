package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDisplayName(t *testing.T) {
	req := require.New(t)

	name, err := NormalizeDisplayName("  Alice ")
	req.NoError(err)
	req.Equal("Alice", name)

	_, err = NormalizeDisplayName("   ")
	req.ErrorIs(err, ErrDisplayNameEmpty)

	_, err = NormalizeDisplayName(strings.Repeat("x", MaxDisplayNameLen+1))
	req.ErrorIs(err, ErrDisplayNameTooLong)
}

func TestNewSessionID_IsShortAndUnique(t *testing.T) {
	req := require.New(t)
	a, b := NewSessionID(), NewSessionID()
	req.Len(string(a), meetingCodeLen)
	req.NotEqual(a, b)
}

func TestMeeting_Participants(t *testing.T) {
	req := require.New(t)
	m := &Meeting{ID: "abcd1234", CreatedBy: "alice", Participants: []string{"alice"}}

	// When the same name is added twice
	m.AddParticipant("bob")
	m.AddParticipant("bob")
	req.Equal([]string{"alice", "bob"}, m.Participants)

	// When a name is removed
	m.RemoveParticipant("alice")
	req.Equal([]string{"bob"}, m.Participants)
	req.False(m.HasParticipant("alice"))
}

func TestNewUser(t *testing.T) {
	req := require.New(t)

	u, err := NewUser("  Alice ")
	req.NoError(err)
	req.Equal("Alice", u.Name)
	req.NotEmpty(u.ID)
	req.False(u.CreatedAt.IsZero())

	other, err := NewUser("Alice")
	req.NoError(err)
	req.NotEqual(u.ID, other.ID)

	_, err = NewUser("")
	req.ErrorIs(err, ErrDisplayNameEmpty)
}
