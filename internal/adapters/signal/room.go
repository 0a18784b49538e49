package signal

import (
	"context"
	"time"

	"github.com/dkeye/Meet/internal/protocol"
	"github.com/rs/zerolog/log"
)

const joinTimeout = 5 * time.Second

// The lookup is bounded by joinTimeout and abandoned when the connection
// or the server shuts down.
func (ctl *SignalWSController) handleJoin(ctx context.Context, conn *WsSignalConn, p protocol.Join) {
	ctx, cancel := context.WithTimeout(ctx, joinTimeout)
	defer cancel()

	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("session", string(p.SessionID)).Msg("join")
	// The orchestrator has already answered the joiner on failure.
	_ = ctl.Orch.Join(ctx, conn.id, p.SessionID, p.DisplayName)
}

// handleLeave takes the connection out of its session; the channel stays open.
func (ctl *SignalWSController) handleLeave(conn *WsSignalConn, p protocol.Leave) {
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Str("session", string(p.SessionID)).Msg("leave")
	ctl.Orch.Leave(conn.id, p.SessionID)
}
