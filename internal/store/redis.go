package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps meeting records as JSON strings under "meeting:<id>".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redisURL and checks the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func redisKey(id domain.SessionID) string {
	return fmt.Sprintf("meeting:%s", id)
}

func (s *RedisStore) Exists(ctx context.Context, id domain.SessionID) (bool, error) {
	n, err := s.client.Exists(ctx, redisKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) Create(ctx context.Context, createdBy string) (domain.Meeting, error) {
	for range maxCreateAttempts {
		m := newMeeting(domain.NewSessionID(), createdBy)
		data, err := json.Marshal(m)
		if err != nil {
			return domain.Meeting{}, err
		}
		ok, err := s.client.SetNX(ctx, redisKey(m.ID), data, 0).Result()
		if err != nil {
			return domain.Meeting{}, fmt.Errorf("create meeting: %w", err)
		}
		if ok {
			return m, nil
		}
	}
	return domain.Meeting{}, ErrIDExhausted
}

func (s *RedisStore) Get(ctx context.Context, id domain.SessionID) (domain.Meeting, error) {
	return getMeeting(ctx, s.client, id)
}

func (s *RedisStore) AddParticipant(ctx context.Context, id domain.SessionID, name string) (domain.Meeting, error) {
	return s.update(ctx, id, func(m *domain.Meeting) { m.AddParticipant(name) })
}

func (s *RedisStore) RemoveParticipant(ctx context.Context, id domain.SessionID, name string) (domain.Meeting, error) {
	return s.update(ctx, id, func(m *domain.Meeting) { m.RemoveParticipant(name) })
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// update runs fn under WATCH so concurrent edits of one meeting never lose
// a participant.
func (s *RedisStore) update(ctx context.Context, id domain.SessionID, fn func(*domain.Meeting)) (domain.Meeting, error) {
	key := redisKey(id)
	var out domain.Meeting

	txf := func(tx *redis.Tx) error {
		m, err := getMeeting(ctx, tx, id)
		if err != nil {
			return err
		}
		fn(&m)
		m.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, redis.KeepTTL)
			return nil
		})
		if err == nil {
			out = m
		}
		return err
	}

	for range maxUpdateAttempts {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return out, err
	}
	return domain.Meeting{}, ErrConflict
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getMeeting(ctx context.Context, c getter, id domain.SessionID) (domain.Meeting, error) {
	var m domain.Meeting
	raw, err := c.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return m, ErrNotFound
	}
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("decode meeting %s: %w", id, err)
	}
	if m.Participants == nil {
		m.Participants = []string{}
	}
	return m, nil
}
