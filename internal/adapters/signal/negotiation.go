package signal

import "github.com/dkeye/Meet/internal/protocol"

func (ctl *SignalWSController) handleNegotiation(conn *WsSignalConn, n protocol.Negotiation) {
	ctl.Orch.Relay(conn.id, n)
}
