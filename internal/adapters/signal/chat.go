package signal

import (
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/dkeye/Meet/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleChat(conn *WsSignalConn, c protocol.Chat) {
	if !ctl.Limiter.Allow(conn.id) {
		metrics.DroppedEnvelopes.WithLabelValues(metrics.ReasonRateLimited).Inc()
		log.Warn().Str("module", "signal").Str("conn", string(conn.id)).Msg("chat rate limited")
		ctl.sendJSON(conn, protocol.NewError(protocol.CodeRateLimited, "too many messages"))
		return
	}
	ctl.Orch.Chat(conn.id, c)
}
