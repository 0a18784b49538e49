package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dkeye/Meet/internal/domain"
)

// MemoryStore keeps records in process memory. Records are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	meetings map[domain.SessionID]domain.Meeting
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{meetings: make(map[domain.SessionID]domain.Meeting)}
}

func (s *MemoryStore) Exists(_ context.Context, id domain.SessionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.meetings[id]
	return ok, nil
}

func (s *MemoryStore) Create(_ context.Context, createdBy string) (domain.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for range maxCreateAttempts {
		id := domain.NewSessionID()
		if _, taken := s.meetings[id]; taken {
			continue
		}
		m := newMeeting(id, createdBy)
		s.meetings[id] = m
		return clone(m), nil
	}
	return domain.Meeting{}, ErrIDExhausted
}

func (s *MemoryStore) Get(_ context.Context, id domain.SessionID) (domain.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[id]
	if !ok {
		return domain.Meeting{}, ErrNotFound
	}
	return clone(m), nil
}

func (s *MemoryStore) AddParticipant(_ context.Context, id domain.SessionID, name string) (domain.Meeting, error) {
	return s.update(id, func(m *domain.Meeting) { m.AddParticipant(name) })
}

func (s *MemoryStore) RemoveParticipant(_ context.Context, id domain.SessionID, name string) (domain.Meeting, error) {
	return s.update(id, func(m *domain.Meeting) { m.RemoveParticipant(name) })
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) update(id domain.SessionID, fn func(*domain.Meeting)) (domain.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[id]
	if !ok {
		return domain.Meeting{}, ErrNotFound
	}
	m = clone(m)
	fn(&m)
	m.UpdatedAt = time.Now().UTC()
	s.meetings[id] = m
	return clone(m), nil
}

func clone(m domain.Meeting) domain.Meeting {
	m.Participants = slices.Clone(m.Participants)
	if m.Participants == nil {
		m.Participants = []string{}
	}
	return m
}
