package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
)

var (
	ErrNotFound = errors.New("meeting not found")
	// ErrConflict is returned when a record kept changing under an update
	// and the retries ran out.
	ErrConflict = errors.New("meeting update conflict")
	// ErrIDExhausted is returned when no unused meeting code was found.
	ErrIDExhausted = errors.New("could not allocate meeting id")
)

const (
	maxCreateAttempts = 5
	maxUpdateAttempts = 16
)

// Store holds meeting records. The signaling relay only sees Exists.
type Store interface {
	Exists(ctx context.Context, id domain.SessionID) (bool, error)
	Create(ctx context.Context, createdBy string) (domain.Meeting, error)
	Get(ctx context.Context, id domain.SessionID) (domain.Meeting, error)
	AddParticipant(ctx context.Context, id domain.SessionID, name string) (domain.Meeting, error)
	RemoveParticipant(ctx context.Context, id domain.SessionID, name string) (domain.Meeting, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "", "memory":
		s = NewMemoryStore()
	case "badger":
		s, err = OpenBadgerStore(cfg.BadgerPath)
	case "redis":
		s, err = NewRedisStore(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	driver := cfg.Driver
	if driver == "" {
		driver = "memory"
	}
	return Instrument(s, driver), nil
}

func newMeeting(id domain.SessionID, createdBy string) domain.Meeting {
	now := time.Now().UTC()
	return domain.Meeting{
		ID:           id,
		CreatedBy:    createdBy,
		Participants: []string{createdBy},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type instrumented struct {
	next   Store
	driver string
}

// Instrument records the latency of every call on s under the driver label.
func Instrument(s Store, driver string) Store {
	return &instrumented{next: s, driver: driver}
}

func (i *instrumented) observe(op string, start time.Time) {
	metrics.StoreLatency.WithLabelValues(i.driver, op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Exists(ctx context.Context, id domain.SessionID) (bool, error) {
	defer i.observe("exists", time.Now())
	return i.next.Exists(ctx, id)
}

func (i *instrumented) Create(ctx context.Context, createdBy string) (domain.Meeting, error) {
	defer i.observe("create", time.Now())
	return i.next.Create(ctx, createdBy)
}

func (i *instrumented) Get(ctx context.Context, id domain.SessionID) (domain.Meeting, error) {
	defer i.observe("get", time.Now())
	return i.next.Get(ctx, id)
}

func (i *instrumented) AddParticipant(ctx context.Context, id domain.SessionID, name string) (domain.Meeting, error) {
	defer i.observe("add_participant", time.Now())
	return i.next.AddParticipant(ctx, id, name)
}

func (i *instrumented) RemoveParticipant(ctx context.Context, id domain.SessionID, name string) (domain.Meeting, error) {
	defer i.observe("remove_participant", time.Now())
	return i.next.RemoveParticipant(ctx, id, name)
}

func (i *instrumented) Ping(ctx context.Context) error { return i.next.Ping(ctx) }

func (i *instrumented) Close() error { return i.next.Close() }
