package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/Meet/internal/metrics"
	"github.com/dkeye/Meet/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	var ping <-chan time.Time
	if ctl.pingPeriod > 0 {
		ticker := time.NewTicker(ctl.pingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ctx done")
			return
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("writePump write error")
				return
			}
		}
	}
}

// readPump handles inbound frames of one connection strictly in arrival
// order and runs disconnect reconciliation once when the channel ends.
func (ctl *SignalWSController) readPump(ctx context.Context, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump closing")
		c.Close()
		ctl.disconnect(c)
	}()

	if ctl.readLimit > 0 {
		c.conn.SetReadLimit(ctl.readLimit)
	}
	if ctl.pongWait > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait))
		})
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("readPump read error")
			}
			return
		}
		ctl.handleSignal(ctx, c, data)
	}
}

func (ctl *SignalWSController) disconnect(c *WsSignalConn) {
	if !ctl.Gateway.Release(c.id) {
		return
	}
	ctl.Limiter.Forget(c.id)
	ctl.Orch.OnDisconnect(c.id)
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, c *WsSignalConn, data []byte) {
	in, err := protocol.Decode(data)
	if err != nil {
		metrics.DroppedEnvelopes.WithLabelValues(metrics.ReasonBadPayload).Inc()
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.id)).Msg("bad envelope")
		code := protocol.CodeBadPayload
		if errors.Is(err, protocol.ErrUnknownType) {
			code = protocol.CodeUnknownType
		}
		ctl.sendJSON(c, protocol.NewError(code, err.Error()))
		return
	}
	metrics.EnvelopesReceived.WithLabelValues(string(in.Kind())).Inc()

	switch p := in.(type) {
	case protocol.Join:
		ctl.handleJoin(ctx, c, p)
	case protocol.Leave:
		ctl.handleLeave(c, p)
	case protocol.Chat:
		ctl.handleChat(c, p)
	case protocol.Negotiation:
		ctl.handleNegotiation(c, p)
	case protocol.Ping:
		ctl.handlePing(c)
	case protocol.WhoAmI:
		ctl.handleWhoAmI(c)
	}
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	ctl.Gateway.Send(c.id, b)
}
