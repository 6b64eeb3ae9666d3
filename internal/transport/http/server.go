package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dmarkin/roomcast-server/internal/config"
	"github.com/dmarkin/roomcast-server/internal/core"
	"github.com/dmarkin/roomcast-server/internal/proto"
)

// NewServer builds the HTTP server: health check, metrics, a read-only
// presence endpoint and the WebSocket upgrade route.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger, metricsHandler stdhttp.Handler) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(LoggerMiddleware(logger), CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", healthHandler)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}
	router.GET("/api/presence", presenceHandler(hub))
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

// presenceHandler serves the current global presence snapshot.
func presenceHandler(hub *core.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := hub.Presence(c.Request.Context())
		users := make([]proto.PresenceUser, 0, len(entries))
		for _, e := range entries {
			users = append(users, proto.PresenceUser{
				ConnectionID: e.ConnID,
				UserID:       e.UserID,
			})
		}
		c.JSON(stdhttp.StatusOK, gin.H{"users": users})
	}
}
