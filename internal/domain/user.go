// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxDisplayNameLen = 36

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
)

// NormalizeDisplayName trims surrounding whitespace and enforces length bounds.
// Display names are not unique and never identify a connection.
func NormalizeDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return "", ErrDisplayNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return "", ErrDisplayNameTooLong
	}
	return name, nil
}

type UserID string

// User is a named visitor identity handed out before any meeting is joined.
type User struct {
	ID        UserID    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUser(name string) (*User, error) {
	name, err := NormalizeDisplayName(name)
	if err != nil {
		return nil, err
	}
	return &User{ID: UserID(uuid.NewString()), Name: name, CreatedAt: time.Now().UTC()}, nil
}
