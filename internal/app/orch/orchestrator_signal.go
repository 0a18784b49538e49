package orch

import (
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/dkeye/Meet/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Relay forwards an offer, answer or candidate from cid to n.To. Both ends
// must be in the same session; anything else is dropped and logged since
// the sender has no response channel for signaling traffic.
func (o *Orchestrator) Relay(cid domain.ConnID, n protocol.Negotiation) {
	o.step.Lock()
	defer o.step.Unlock()

	sid, _, ok := o.Registry.Lookup(cid)
	if !ok {
		metrics.DroppedEnvelopes.WithLabelValues(metrics.ReasonNotAMember).Inc()
		log.Warn().Str("module", "orch").Str("conn", string(cid)).Str("type", string(n.Kind())).Msg("relay dropped: sender not in a session")
		return
	}
	tsid, _, ok := o.Registry.Lookup(n.To)
	if !ok || tsid != sid {
		metrics.DroppedEnvelopes.WithLabelValues(metrics.ReasonTargetUnreachable).Inc()
		log.Debug().Str("module", "orch").Str("conn", string(cid)).Str("to", string(n.To)).Str("session", string(sid)).Msg("relay dropped: target not in sender's session")
		return
	}

	frame, err := protocol.EncodeNegotiation(n.Kind(), cid, n.Payload)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode negotiation")
		return
	}
	o.Out.Send(n.To, frame)
	metrics.EnvelopesRelayed.WithLabelValues(string(n.Kind())).Inc()
}
