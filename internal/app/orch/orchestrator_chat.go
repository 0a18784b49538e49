package orch

import (
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/dkeye/Meet/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Chat broadcasts c.Text to every member of c.SessionID, sender included.
func (o *Orchestrator) Chat(cid domain.ConnID, c protocol.Chat) {
	o.step.Lock()
	defer o.step.Unlock()

	sid, me, ok := o.Registry.Lookup(cid)
	if !ok || sid != c.SessionID {
		metrics.DroppedEnvelopes.WithLabelValues(metrics.ReasonNotAMember).Inc()
		log.Warn().Str("module", "orch").Str("conn", string(cid)).Str("session", string(c.SessionID)).Msg("chat dropped: not a member")
		return
	}
	o.fanout(o.Registry.List(sid), protocol.NewMessage(sid, me, c.Text))
	metrics.EnvelopesRelayed.WithLabelValues(string(protocol.KindMessage)).Inc()
}
