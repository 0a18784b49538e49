package orch

import (
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/protocol"
	"github.com/samber/lo"
)

// announceJoin sends the roster of everybody else to the joiner, then tells
// every pre-existing member about the joiner. Pre-existing members initiate
// the peer connection; the joiner never does.
func (o *Orchestrator) announceJoin(sid domain.SessionID, joiner domain.ConnID, roster []domain.Participant) {
	others := lo.Filter(roster, func(p domain.Participant, _ int) bool { return p.ConnID != joiner })
	self, _ := lo.Find(roster, func(p domain.Participant) bool { return p.ConnID == joiner })

	o.send(joiner, protocol.NewParticipants(sid, others))
	o.fanout(others, protocol.NewUserJoined(sid, self))
}

// announceLeave tells the remaining members of sid that p is gone.
// Nothing is sent to p.
func (o *Orchestrator) announceLeave(sid domain.SessionID, p domain.Participant) {
	remaining := lo.Filter(o.Registry.List(sid), func(m domain.Participant, _ int) bool { return m.ConnID != p.ConnID })
	o.fanout(remaining, protocol.NewUserLeft(sid, p))
}
