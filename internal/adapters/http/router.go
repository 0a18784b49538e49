package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dkeye/Meet/internal/adapters/signal"
	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/store"
	rest "github.com/dkeye/Meet/internal/transport/http"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators the router mounts.
type Deps struct {
	Store    store.Store
	Registry *app.Registry
	Signal   *signal.SignalWSController
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}

	cookies := cookie.NewStore([]byte(cfg.Secret))
	cookies.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions("MeetSessions", cookies))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	r.GET("/healthz", healthz(deps.Store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString(clientTokenKey)).Msg("ws signal endpoint hit")
		deps.Signal.HandleSignal(ctx, c)
	})

	ice := cfg.ICEServerList()
	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": ice})
	})

	rest.NewMeetingHandler(deps.Store, deps.Registry).Register(api.Group("/meetings"))
	rest.RegisterUsers(api.Group("/users"))

	return r
}

func healthz(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		start := time.Now()
		if err := s.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("store ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": "fail"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "store": "pass", "latency": time.Since(start).String()})
	}
}
