package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/scrabless/scrabless-server/internal/auth"
	"github.com/scrabless/scrabless-server/internal/config"
	"github.com/scrabless/scrabless-server/internal/core"
	"github.com/scrabless/scrabless-server/internal/game"
	"github.com/scrabless/scrabless-server/internal/room"
)

// NewServer builds the HTTP server: the lifecycle endpoints behind the
// identity resolver, and the persistent channel, which authenticates its
// own handshake.
func NewServer(
	resolver *auth.Service,
	directory *room.Directory,
	engine *game.Engine,
	registry *core.Registry,
	router *core.Router,
	cfg *config.Config,
	logger *zerolog.Logger,
) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(logger))
	r.Use(CORSMiddleware(cfg.AllowedOrigin))

	pusher := newSnapshotPusher(engine, registry, cfg.PushRetryAttempts, cfg.PushRetryInterval, logger)
	roomHandlers := NewRoomHandlers(directory, engine, registry, pusher, cfg.CreateRoomPerMin, logger)
	userHandlers := NewUserHandlers(logger)
	wsHandler := NewWSHandler(resolver, registry, router, logger)

	r.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	authed := r.Group("/", IdentityMiddleware(resolver, logger))
	authed.POST("/create-room", roomHandlers.CreateRoom)
	authed.GET("/friend-room", roomHandlers.FriendRoom)
	authed.GET("/user", userHandlers.User)

	r.GET("/ws", gin.WrapH(wsHandler))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
