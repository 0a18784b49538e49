package config

import (
	"strings"

	"github.com/pion/webrtc/v4"
	"github.com/samber/lo"
)

// ICEServerList converts the configured urls into the shape browsers take
// for RTCPeerConnection. Entries may carry credentials as
// "turn:host:port|user|password".
func (c *Config) ICEServerList() []webrtc.ICEServer {
	urls := lo.Compact(lo.Map(c.ICEServers, func(s string, _ int) string { return strings.TrimSpace(s) }))
	return lo.Map(urls, func(s string, _ int) webrtc.ICEServer {
		parts := strings.SplitN(s, "|", 3)
		srv := webrtc.ICEServer{URLs: []string{parts[0]}}
		if len(parts) == 3 {
			srv.Username = parts[1]
			srv.Credential = parts[2]
		}
		return srv
	})
}
