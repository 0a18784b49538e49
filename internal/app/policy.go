package app

import (
	"fmt"

	"github.com/dkeye/Meet/internal/domain"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a connection whose outbound queue is full.
type Policy interface {
	OnBackPressure(cid domain.ConnID) BackpressureAction
}

// SimplePolicy applies the same action to every connection.
type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(domain.ConnID) BackpressureAction {
	return p.Action
}

// PolicyFromString maps the config value ("drop", "kick") to a Policy.
func PolicyFromString(s string) (Policy, error) {
	switch s {
	case "", "drop":
		return SimplePolicy{Action: DropFrame}, nil
	case "kick":
		return SimplePolicy{Action: KickMember}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", s)
	}
}
