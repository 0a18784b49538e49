package store

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dkeye/Meet/internal/config"
	"github.com/stretchr/testify/require"
)

type factory func(t *testing.T) Store

func drivers() map[string]factory {
	return map[string]factory{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"badger": func(t *testing.T) Store {
			s, err := OpenBadgerStore(t.TempDir())
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		"redis": func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, open := range drivers() {
		t.Run(name, func(t *testing.T) {
			t.Run("create then get", func(t *testing.T) {
				req := require.New(t)
				ctx := context.Background()
				s := open(t)

				m, err := s.Create(ctx, "alice")
				req.NoError(err)
				req.Len(string(m.ID), 8)
				req.Equal("alice", m.CreatedBy)
				req.Equal([]string{"alice"}, m.Participants)

				got, err := s.Get(ctx, m.ID)
				req.NoError(err)
				req.Equal(m.ID, got.ID)
				req.Equal([]string{"alice"}, got.Participants)

				ok, err := s.Exists(ctx, m.ID)
				req.NoError(err)
				req.True(ok)
			})

			t.Run("unknown meeting", func(t *testing.T) {
				req := require.New(t)
				ctx := context.Background()
				s := open(t)

				ok, err := s.Exists(ctx, "nope0000")
				req.NoError(err)
				req.False(ok)

				_, err = s.Get(ctx, "nope0000")
				req.ErrorIs(err, ErrNotFound)

				_, err = s.AddParticipant(ctx, "nope0000", "bob")
				req.ErrorIs(err, ErrNotFound)
			})

			t.Run("participants are recorded once and removable", func(t *testing.T) {
				req := require.New(t)
				ctx := context.Background()
				s := open(t)
				m, err := s.Create(ctx, "alice")
				req.NoError(err)

				_, err = s.AddParticipant(ctx, m.ID, "bob")
				req.NoError(err)
				got, err := s.AddParticipant(ctx, m.ID, "bob")
				req.NoError(err)
				req.Equal([]string{"alice", "bob"}, got.Participants)

				got, err = s.RemoveParticipant(ctx, m.ID, "alice")
				req.NoError(err)
				req.Equal([]string{"bob"}, got.Participants)

				got, err = s.Get(ctx, m.ID)
				req.NoError(err)
				req.Equal([]string{"bob"}, got.Participants)
			})

			t.Run("concurrent adds are not lost", func(t *testing.T) {
				req := require.New(t)
				ctx := context.Background()
				s := open(t)
				m, err := s.Create(ctx, "host")
				req.NoError(err)

				names := []string{"a", "b", "c", "d", "e", "f"}
				errs := make(chan error, len(names))
				var wg sync.WaitGroup
				for _, n := range names {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_, err := s.AddParticipant(ctx, m.ID, n)
						errs <- err
					}()
				}
				wg.Wait()
				close(errs)
				for err := range errs {
					req.NoError(err)
				}

				got, err := s.Get(ctx, m.ID)
				req.NoError(err)
				req.ElementsMatch(append([]string{"host"}, names...), got.Participants)
			})

			t.Run("ping", func(t *testing.T) {
				require.NoError(t, open(t).Ping(context.Background()))
			})
		})
	}
}

func TestOpen(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Driver: "memory"})
	req.NoError(err)
	m, err := s.Create(ctx, "alice")
	req.NoError(err)
	ok, err := s.Exists(ctx, m.ID)
	req.NoError(err)
	req.True(ok)

	_, err = Open(ctx, config.StoreConfig{Driver: "etcd"})
	req.Error(err)

	_, err = Open(ctx, config.StoreConfig{Driver: "redis", RedisURL: "not a url"})
	req.Error(err)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewMemoryStore()
	m, err := s.Create(ctx, "alice")
	req.NoError(err)

	m.Participants[0] = "mallory"

	got, err := s.Get(ctx, m.ID)
	req.NoError(err)
	req.Equal([]string{"alice"}, got.Participants)
}
