package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/agent-status/internal/domain/event"
	porteventbus "github.com/alanyang/agent-status/internal/port/eventbus"
	convsvc "github.com/alanyang/agent-status/internal/service/conversation"
	loadingsvc "github.com/alanyang/agent-status/internal/service/loading"

	convhandler "github.com/alanyang/agent-status/internal/transport/conversation"
	wshandler "github.com/alanyang/agent-status/internal/transport/ws"
)

func NewRouter(
	ctx context.Context,
	loadingSvc *loadingsvc.Service,
	conversationSvc *convsvc.Service,
	hub *wshandler.Hub,
	mcpHandler http.Handler,
	eventBus porteventbus.EventBus,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")
	convhandler.Register(api.Group("/conversations/:id"), loadingSvc, conversationSvc)

	hub.SetSnapshot(loadingSvc.Update)
	hub.Register(api.Group("/ws"))

	if mcpHandler != nil {
		r.Any("/mcp", gin.WrapH(mcpHandler))
	}

	// Bridge: every signal and conversation event is forwarded to WS clients
	// watching that conversation; event.Type in the payload lets them filter.
	for _, ch := range []event.Channel{
		event.ChannelSignal,
		event.ChannelConversation,
	} {
		c := ch
		if _, err := eventBus.Subscribe(ctx, c, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", c, "error", err)
		}
	}

	return r
}
