package http

import (
	"slices"
	"strconv"
	"time"

	"github.com/dkeye/Meet/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const clientTokenKey = "client_token"

// ClientTokenMiddleware keeps a stable per-browser token in the cookie
// session. It only labels logs; it is not authentication.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			s.Set(clientTokenKey, token)
			if err := s.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

// RequestLogger logs every request through zerolog and records the HTTP
// metrics. Routes are labelled by their pattern to keep cardinality low.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(elapsed.Seconds())

		ev := log.Debug()
		if status >= 500 {
			ev = log.Error()
		}
		ev.Str("module", "adapters.http").
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("request")
	}
}

// CORS lets a browser frontend served from another origin call the API.
// "*" in origins allows any origin.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
