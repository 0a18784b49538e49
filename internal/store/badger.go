package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// BadgerStore persists meeting records in an embedded BadgerDB, one JSON
// value per "meeting:<id>" key.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a database at path. An empty path
// opens an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{log.With().Str("module", "store.badger").Logger()})
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return NewBadgerStore(db), nil
}

func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func meetingKey(id domain.SessionID) []byte {
	return []byte("meeting:" + string(id))
}

func (s *BadgerStore) Exists(_ context.Context, id domain.SessionID) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(meetingKey(id))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *BadgerStore) Create(_ context.Context, createdBy string) (domain.Meeting, error) {
	for range maxCreateAttempts {
		m := newMeeting(domain.NewSessionID(), createdBy)
		data, err := json.Marshal(m)
		if err != nil {
			return domain.Meeting{}, err
		}
		taken := false
		err = s.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(meetingKey(m.ID))
			if err == nil {
				taken = true
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			return txn.Set(meetingKey(m.ID), data)
		})
		if errors.Is(err, badger.ErrConflict) || (err == nil && taken) {
			continue
		}
		if err != nil {
			return domain.Meeting{}, fmt.Errorf("create meeting: %w", err)
		}
		return m, nil
	}
	return domain.Meeting{}, ErrIDExhausted
}

func (s *BadgerStore) Get(_ context.Context, id domain.SessionID) (domain.Meeting, error) {
	var m domain.Meeting
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		m, err = readMeeting(txn, id)
		return err
	})
	return m, err
}

func (s *BadgerStore) AddParticipant(_ context.Context, id domain.SessionID, name string) (domain.Meeting, error) {
	return s.update(id, func(m *domain.Meeting) { m.AddParticipant(name) })
}

func (s *BadgerStore) RemoveParticipant(_ context.Context, id domain.SessionID, name string) (domain.Meeting, error) {
	return s.update(id, func(m *domain.Meeting) { m.RemoveParticipant(name) })
}

func (s *BadgerStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// update applies fn in a read-modify-write transaction, retrying when a
// concurrent writer touched the same record.
func (s *BadgerStore) update(id domain.SessionID, fn func(*domain.Meeting)) (domain.Meeting, error) {
	for range maxUpdateAttempts {
		var out domain.Meeting
		err := s.db.Update(func(txn *badger.Txn) error {
			m, err := readMeeting(txn, id)
			if err != nil {
				return err
			}
			fn(&m)
			m.UpdatedAt = time.Now().UTC()
			data, err := json.Marshal(m)
			if err != nil {
				return err
			}
			out = m
			return txn.Set(meetingKey(id), data)
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return out, err
	}
	return domain.Meeting{}, ErrConflict
}

func readMeeting(txn *badger.Txn, id domain.SessionID) (domain.Meeting, error) {
	var m domain.Meeting
	item, err := txn.Get(meetingKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return m, ErrNotFound
	}
	if err != nil {
		return m, err
	}
	err = item.Value(func(v []byte) error {
		return json.Unmarshal(v, &m)
	})
	if err != nil {
		return m, fmt.Errorf("decode meeting %s: %w", id, err)
	}
	if m.Participants == nil {
		m.Participants = []string{}
	}
	return m, nil
}

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(f string, v ...interface{})   { b.l.Error().Msgf(f, v...) }
func (b badgerLogger) Warningf(f string, v ...interface{}) { b.l.Warn().Msgf(f, v...) }
func (b badgerLogger) Infof(f string, v ...interface{})    { b.l.Debug().Msgf(f, v...) }
func (b badgerLogger) Debugf(f string, v ...interface{})   { b.l.Trace().Msgf(f, v...) }
