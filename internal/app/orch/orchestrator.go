package orch

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Orchestrator runs every handling step (join, leave, disconnect, relay,
// chat) one at a time so that roster mutations and the frames they produce
// reach each connection in a consistent order.
type Orchestrator struct {
	Registry *app.Registry
	Out      core.Sender

	step sync.Mutex
}

func New(registry *app.Registry, out core.Sender) *Orchestrator {
	return &Orchestrator{Registry: registry, Out: out}
}

func (o *Orchestrator) send(to domain.ConnID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal envelope")
		return
	}
	o.Out.Send(to, b)
}

// fanout encodes v once and sends it to every target.
func (o *Orchestrator) fanout(targets []domain.Participant, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal envelope")
		return
	}
	for _, p := range targets {
		o.Out.Send(p.ConnID, b)
	}
}

func (o *Orchestrator) syncGauges() {
	metrics.SessionsActive.Set(float64(o.Registry.SessionCount()))
}
