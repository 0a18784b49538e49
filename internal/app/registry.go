package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var (
	ErrUnknownSession = errors.New("unknown session")
	// ErrUnverified means the roster went away before an unchecked join
	// could be admitted.
	ErrUnverified = errors.New("session not verified against record store")
)

type rosterEntry struct {
	participant domain.Participant
	seq         uint64
}

type roster map[domain.ConnID]rosterEntry

// JoinResult is the outcome of a successful Join.
// Roster holds every member including the joiner, in join order.
// When the connection was moved out of another session, Previous names it
// and Departed carries the entry that was removed there.
type JoinResult struct {
	Roster   []domain.Participant
	Previous domain.SessionID
	Departed domain.Participant
}

func (r JoinResult) Moved() bool { return r.Previous != "" }

// Registry is the authoritative in-memory mapping from session to live
// participants. Roster membership and the connection index change together
// under one lock.
type Registry struct {
	records core.RecordChecker

	mu      sync.RWMutex
	rosters map[domain.SessionID]roster
	index   map[domain.ConnID]domain.SessionID
	seq     uint64
	onEmpty func(domain.SessionID)
}

type RegistryOption func(*Registry)

// WithOnEmpty registers a hook called (outside the lock) after a roster
// becomes empty and is dropped.
func WithOnEmpty(fn func(domain.SessionID)) RegistryOption {
	return func(r *Registry) { r.onEmpty = fn }
}

func NewRegistry(records core.RecordChecker, opts ...RegistryOption) *Registry {
	r := &Registry{
		records: records,
		rosters: make(map[domain.SessionID]roster),
		index:   make(map[domain.ConnID]domain.SessionID),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NeedsRecordCheck reports whether a join to sid has to be validated
// against the record store, i.e. sid has no live roster.
func (r *Registry) NeedsRecordCheck(sid domain.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, live := r.rosters[sid]
	return !live
}

// CheckRecord asks the record store whether sid exists. It takes no lock
// and may block on store I/O.
func (r *Registry) CheckRecord(ctx context.Context, sid domain.SessionID) error {
	ok, err := r.records.Exists(ctx, sid)
	if err != nil {
		return fmt.Errorf("check session %s: %w", sid, err)
	}
	if !ok {
		log.Info().Str("module", "app.registry").Str("session", string(sid)).Msg("join rejected: unknown session")
		return ErrUnknownSession
	}
	return nil
}

// Admit adds cid to the roster of sid. Unless verified is set, sid must
// still have a live roster; otherwise ErrUnverified is returned and the
// caller has to run CheckRecord again.
func (r *Registry) Admit(sid domain.SessionID, cid domain.ConnID, displayName string, verified bool) (JoinResult, error) {
	name, err := domain.NormalizeDisplayName(displayName)
	if err != nil {
		return JoinResult{}, err
	}

	r.mu.Lock()
	if _, live := r.rosters[sid]; !live && !verified {
		r.mu.Unlock()
		return JoinResult{}, ErrUnverified
	}

	var res JoinResult
	var emptied domain.SessionID
	if prev, ok := r.index[cid]; ok {
		res.Previous = prev
		res.Departed, _ = r.removeLocked(prev, cid)
		if _, still := r.rosters[prev]; !still {
			emptied = prev
		}
	}

	members, ok := r.rosters[sid]
	if !ok {
		members = make(roster)
		r.rosters[sid] = members
	}
	r.seq++
	members[cid] = rosterEntry{
		participant: domain.Participant{ConnID: cid, DisplayName: name},
		seq:         r.seq,
	}
	r.index[cid] = sid
	res.Roster = members.snapshot()
	r.mu.Unlock()

	// The joined session may be the one just emptied (rejoin); it is live again.
	if emptied != "" && emptied != sid {
		r.notifyEmpty(emptied)
	}

	log.Info().Str("module", "app.registry").Str("session", string(sid)).Str("conn", string(cid)).Int("members", len(res.Roster)).Msg("participant joined")
	return res, nil
}

// Join validates sid against the record store when it has no live roster
// and admits cid. A roster that empties between the check and the admit
// is checked again.
func (r *Registry) Join(ctx context.Context, sid domain.SessionID, cid domain.ConnID, displayName string) (JoinResult, error) {
	if _, err := domain.NormalizeDisplayName(displayName); err != nil {
		return JoinResult{}, err
	}
	for {
		verified := false
		if r.NeedsRecordCheck(sid) {
			if err := r.CheckRecord(ctx, sid); err != nil {
				return JoinResult{}, err
			}
			verified = true
		}
		res, err := r.Admit(sid, cid, displayName, verified)
		if errors.Is(err, ErrUnverified) {
			continue
		}
		return res, err
	}
}

// Leave removes cid from sid. Leaving a session the connection is not in
// reports false.
func (r *Registry) Leave(sid domain.SessionID, cid domain.ConnID) (domain.Participant, bool) {
	r.mu.Lock()
	if cur, ok := r.index[cid]; !ok || cur != sid {
		r.mu.Unlock()
		return domain.Participant{}, false
	}
	p, emptied := r.removeLocked(sid, cid)
	r.mu.Unlock()

	if emptied {
		r.notifyEmpty(sid)
	}
	log.Info().Str("module", "app.registry").Str("session", string(sid)).Str("conn", string(cid)).Msg("participant left")
	return p, true
}

// Remove drops cid from whichever roster holds it.
func (r *Registry) Remove(cid domain.ConnID) (domain.SessionID, domain.Participant, bool) {
	r.mu.Lock()
	sid, ok := r.index[cid]
	if !ok {
		r.mu.Unlock()
		return "", domain.Participant{}, false
	}
	p, emptied := r.removeLocked(sid, cid)
	r.mu.Unlock()

	if emptied {
		r.notifyEmpty(sid)
	}
	log.Info().Str("module", "app.registry").Str("session", string(sid)).Str("conn", string(cid)).Msg("participant removed")
	return sid, p, true
}

// List returns the live roster of sid in join order.
func (r *Registry) List(sid domain.SessionID) []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rosters[sid].snapshot()
}

// Lookup returns the session and roster entry currently held by cid.
func (r *Registry) Lookup(cid domain.ConnID) (domain.SessionID, domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := r.index[cid]
	if !ok {
		return "", domain.Participant{}, false
	}
	return sid, r.rosters[sid][cid].participant, true
}

// SessionCount reports how many sessions have a live roster.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rosters)
}

func (r *Registry) removeLocked(sid domain.SessionID, cid domain.ConnID) (domain.Participant, bool) {
	delete(r.index, cid)
	members, ok := r.rosters[sid]
	if !ok {
		return domain.Participant{}, false
	}
	e := members[cid]
	delete(members, cid)
	if len(members) == 0 {
		delete(r.rosters, sid)
		return e.participant, true
	}
	return e.participant, false
}

func (r *Registry) notifyEmpty(sid domain.SessionID) {
	log.Debug().Str("module", "app.registry").Str("session", string(sid)).Msg("roster empty, dropped")
	if r.onEmpty != nil {
		r.onEmpty(sid)
	}
}

func (m roster) snapshot() []domain.Participant {
	entries := lo.Values(m)
	slices.SortFunc(entries, func(a, b rosterEntry) int { return cmp.Compare(a.seq, b.seq) })
	return lo.Map(entries, func(e rosterEntry, _ int) domain.Participant { return e.participant })
}
