package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	req.NoError(err)
	req.Equal(8080, cfg.Port)
	req.Equal("memory", cfg.Store.Driver)
	req.Equal(54*time.Second, cfg.PingPeriod)
	req.Equal(60*time.Second, cfg.PongWait)
	req.Equal([]string{"stun:stun.l.google.com:19302"}, cfg.ICEServers)
	req.Equal([]string{"*"}, cfg.CORSOrigins)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	req := require.New(t)

	// Given
	path := writeConfig(t, `
mode: debug
port: 9000
chat_rate_limit: 3
cors_origins:
  - http://localhost:5173
store:
  driver: badger
  badger_path: /tmp/meet
`)
	t.Setenv("MEET_PORT", "9100")
	t.Setenv("MEET_STORE_DRIVER", "redis")

	// When
	cfg, err := Load(path)

	// Then
	req.NoError(err)
	req.Equal("debug", cfg.Mode)
	req.Equal(9100, cfg.Port)
	req.Equal(3, cfg.ChatRateLimit)
	req.Equal([]string{"http://localhost:5173"}, cfg.CORSOrigins)
	req.Equal("redis", cfg.Store.Driver)
	req.Equal("/tmp/meet", cfg.Store.BadgerPath)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "store:\n  driver: etcd\n")
	_, err := Load(path)
	require.ErrorContains(t, err, "unknown store driver")
}

func TestValidate_PingMustBeShorterThanPongWait(t *testing.T) {
	cfg := Config{Port: 80, Store: StoreConfig{Driver: "memory"}, PingPeriod: time.Minute, PongWait: time.Second}
	require.Error(t, cfg.Validate())
}

func TestICEServerList(t *testing.T) {
	req := require.New(t)
	cfg := Config{ICEServers: []string{"stun:stun.example.org:3478", " ", "turn:turn.example.org:3478|alice|s3cret"}}

	servers := cfg.ICEServerList()

	req.Len(servers, 2)
	req.Equal([]string{"stun:stun.example.org:3478"}, servers[0].URLs)
	req.Empty(servers[0].Username)
	req.Equal("alice", servers[1].Username)
	req.Equal("s3cret", servers[1].Credential)
}
