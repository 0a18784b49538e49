package orch

import (
	"context"
	"errors"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/dkeye/Meet/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Join adds cid to sid and publishes presence. Rejections are reported to
// the joining connection only.
//
// The record store lookup runs outside the step lock; a slow store only
// delays this joiner. If the roster went away between the lookup and the
// admit, the lookup is repeated.
func (o *Orchestrator) Join(ctx context.Context, cid domain.ConnID, sid domain.SessionID, displayName string) error {
	if _, err := domain.NormalizeDisplayName(displayName); err != nil {
		return o.rejectJoin(cid, sid, err)
	}
	for {
		verified := false
		if o.Registry.NeedsRecordCheck(sid) {
			if err := o.Registry.CheckRecord(ctx, sid); err != nil {
				return o.rejectJoin(cid, sid, err)
			}
			verified = true
		}
		err := o.admit(cid, sid, displayName, verified)
		if errors.Is(err, app.ErrUnverified) {
			log.Debug().Str("module", "orch").Str("conn", string(cid)).Str("session", string(sid)).Msg("roster emptied during lookup, checking again")
			continue
		}
		if err != nil {
			return o.rejectJoin(cid, sid, err)
		}
		return nil
	}
}

func (o *Orchestrator) admit(cid domain.ConnID, sid domain.SessionID, displayName string, verified bool) error {
	o.step.Lock()
	defer o.step.Unlock()

	res, err := o.Registry.Admit(sid, cid, displayName, verified)
	if err != nil {
		return err
	}
	if res.Moved() {
		log.Info().Str("module", "orch").Str("conn", string(cid)).Str("from_session", string(res.Previous)).Msg("moved out of previous session")
		o.announceLeave(res.Previous, res.Departed)
	}
	o.announceJoin(sid, cid, res.Roster)
	o.syncGauges()
	return nil
}

func (o *Orchestrator) rejectJoin(cid domain.ConnID, sid domain.SessionID, err error) error {
	code, msg := joinErrorCode(err)
	metrics.JoinsRejected.WithLabelValues(code).Inc()
	log.Warn().Err(err).Str("module", "orch").Str("conn", string(cid)).Str("session", string(sid)).Msg("join rejected")
	o.send(cid, protocol.NewError(code, msg))
	return err
}

// Leave removes cid from sid. It reports false, and publishes nothing, when
// cid was not a member.
func (o *Orchestrator) Leave(cid domain.ConnID, sid domain.SessionID) bool {
	o.step.Lock()
	defer o.step.Unlock()

	p, ok := o.Registry.Leave(sid, cid)
	if !ok {
		log.Debug().Str("module", "orch").Str("conn", string(cid)).Str("session", string(sid)).Msg("leave ignored: not a member")
		return false
	}
	o.announceLeave(sid, p)
	o.syncGauges()
	return true
}

// OnDisconnect reconciles a lost connection. It must be called once per
// connection; a connection that already left produces no event.
func (o *Orchestrator) OnDisconnect(cid domain.ConnID) {
	o.step.Lock()
	defer o.step.Unlock()

	sid, p, ok := o.Registry.Remove(cid)
	if !ok {
		log.Debug().Str("module", "orch").Str("conn", string(cid)).Msg("disconnect: no roster")
		return
	}
	log.Info().Str("module", "orch").Str("conn", string(cid)).Str("session", string(sid)).Msg("disconnect reconciled")
	o.announceLeave(sid, p)
	o.syncGauges()
}

// WhoAmI replies with the identity the relay holds for cid.
func (o *Orchestrator) WhoAmI(cid domain.ConnID) {
	sid, p, _ := o.Registry.Lookup(cid)
	o.send(cid, protocol.NewIdentity(cid, sid, p.DisplayName))
}

func joinErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, app.ErrUnknownSession):
		return protocol.CodeUnknownSession, "session does not exist"
	case errors.Is(err, domain.ErrDisplayNameEmpty), errors.Is(err, domain.ErrDisplayNameTooLong):
		return protocol.CodeInvalidName, err.Error()
	default:
		return protocol.CodeUnavailable, "session lookup failed"
	}
}
