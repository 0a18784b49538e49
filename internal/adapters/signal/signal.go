package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/metrics"
	"github.com/dkeye/Meet/internal/protocol"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

// WSConn is an indirection over *websocket.Conn to ease testing.
type WSConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	WriteControl(mt int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

var (
	_ core.SignalConnection = (*WsSignalConn)(nil)
	_ core.Sender           = (*Gateway)(nil)
)

type WsSignalConn struct {
	id     domain.ConnID
	client string
	conn   WSConn
	send   chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) ID() domain.ConnID { return c.id }

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// Gateway owns every live signaling connection and delivers frames to them
// by identity. It implements core.Sender.
type Gateway struct {
	mu     sync.RWMutex
	conns  map[domain.ConnID]*WsSignalConn
	policy app.Policy
	buffer int
}

func NewGateway(policy app.Policy, sendBuffer int) *Gateway {
	if policy == nil {
		policy = app.SimplePolicy{Action: app.DropFrame}
	}
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	return &Gateway{
		conns:  make(map[domain.ConnID]*WsSignalConn),
		policy: policy,
		buffer: sendBuffer,
	}
}

// Accept registers ws under a fresh connection identity.
func (g *Gateway) Accept(ws WSConn, client string) *WsSignalConn {
	c := &WsSignalConn{
		id:     domain.NewConnID(),
		client: client,
		conn:   ws,
		send:   make(chan core.Frame, g.buffer),
	}
	g.mu.Lock()
	g.conns[c.id] = c
	g.mu.Unlock()
	metrics.ConnectionsActive.Inc()
	log.Info().Str("module", "signal").Str("conn", string(c.id)).Str("client", client).Msg("connection accepted")
	return c
}

// Release forgets cid. Only the first call for a given identity reports true.
func (g *Gateway) Release(cid domain.ConnID) bool {
	g.mu.Lock()
	_, ok := g.conns[cid]
	delete(g.conns, cid)
	g.mu.Unlock()
	if ok {
		metrics.ConnectionsActive.Dec()
	}
	return ok
}

func (g *Gateway) Send(to domain.ConnID, f core.Frame) {
	g.mu.RLock()
	c, ok := g.conns[to]
	g.mu.RUnlock()
	if !ok {
		metrics.DroppedEnvelopes.WithLabelValues(metrics.ReasonTargetUnreachable).Inc()
		log.Debug().Str("module", "signal").Str("conn", string(to)).Msg("send dropped: no live connection")
		return
	}
	err := c.TrySend(f)
	switch {
	case err == nil:
	case errors.Is(err, ErrBackpressure):
		metrics.DroppedEnvelopes.WithLabelValues(metrics.ReasonBackpressure).Inc()
		if g.policy.OnBackPressure(to) == app.KickMember {
			log.Warn().Str("module", "signal").Str("conn", string(to)).Msg("send queue full, closing connection")
			c.Close()
			return
		}
		log.Warn().Str("module", "signal").Str("conn", string(to)).Msg("send queue full, frame dropped")
	default:
		metrics.DroppedEnvelopes.WithLabelValues(metrics.ReasonTargetUnreachable).Inc()
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(to)).Msg("send dropped")
	}
}

type SignalWSController struct {
	Orch    *orch.Orchestrator
	Gateway *Gateway
	Limiter *RoomRateLimiter

	readLimit  int64
	pingPeriod time.Duration
	pongWait   time.Duration
	writeWait  time.Duration
	upgrader   websocket.Upgrader
}

func NewSignalWSController(cfg *config.Config, o *orch.Orchestrator, gw *Gateway) *SignalWSController {
	return &SignalWSController{
		Orch:       o,
		Gateway:    gw,
		Limiter:    NewRoomRateLimiter(cfg.ChatRateLimit, cfg.ChatRateInterval),
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
		pongWait:   cfg.PongWait,
		writeWait:  cfg.WriteWait,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	client := c.GetString("client_token")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ctl.Serve(ctx, ws, client)
}

// Serve runs the pumps for an already upgraded connection.
func (ctl *SignalWSController) Serve(ctx context.Context, ws WSConn, client string) {
	conn := ctl.Gateway.Accept(ws, client)
	ctl.sendJSON(conn, protocol.NewWelcome(conn.ID()))

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, conn)
	}()
}
