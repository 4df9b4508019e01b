package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/agent-status/internal/adapter/memory"
	pgdb "github.com/alanyang/agent-status/internal/adapter/postgres"
	pgconv "github.com/alanyang/agent-status/internal/adapter/postgres/conversation"
	pgeventbus "github.com/alanyang/agent-status/internal/adapter/postgres/eventbus"
	pglocker "github.com/alanyang/agent-status/internal/adapter/postgres/locker"
	"github.com/alanyang/agent-status/internal/config"
	portconv "github.com/alanyang/agent-status/internal/port/conversation"
	porteventbus "github.com/alanyang/agent-status/internal/port/eventbus"
	portsignal "github.com/alanyang/agent-status/internal/port/signal"

	convsvc "github.com/alanyang/agent-status/internal/service/conversation"
	loadingsvc "github.com/alanyang/agent-status/internal/service/loading"

	"github.com/alanyang/agent-status/internal/transport"
	mcptransport "github.com/alanyang/agent-status/internal/transport/mcp"
	wstransport "github.com/alanyang/agent-status/internal/transport/ws"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Pool       *pgxpool.Pool
	Server     *http.Server
	LoadingSvc *loadingsvc.Service
	MCPServer  *mcptransport.Server

	reaper *reaper
	pgBus  *pgeventbus.EventBus
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	// ── Persistence ──────────────────────────────────────────────────────────
	var (
		repo     portconv.Repository
		eventBus porteventbus.EventBus
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgdb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pgdb.MigrateLocked(ctx, pool, pglocker.New(pool)); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		app.Pool = pool
		app.pgBus = pgeventbus.New(pool)
		repo = pgconv.New(pool)
		eventBus = app.pgBus
		slog.Info("persistence: postgres")
	} else {
		repo = memory.NewConversationRepository()
		eventBus = memory.NewEventBus()
		slog.Info("persistence: in-memory, DATABASE_URL not set")
	}

	// ── Signal stores ────────────────────────────────────────────────────────
	signals := memory.NewSignals()
	scope := memory.NewScopeStore()
	status := memory.NewStatusStore()

	// ── Services ─────────────────────────────────────────────────────────────
	conversationSvc := convsvc.NewService(repo, eventBus)

	hub := wstransport.NewHub()
	reg := mcptransport.NewSessionRegistry()

	sources := portsignal.Sources{
		AgentState:    signals,
		WebSocket:     signals,
		Tasks:         signals,
		SubTasks:      signals,
		Conversations: conversationSvc,
	}
	loadingSvc := loadingsvc.NewService(
		sources,
		signals,
		scope,
		status,
		eventBus,
		fanout{hub, reg}, // both implement port/notifier.LoadingNotifier
	)
	if _, err := loadingSvc.Subscribe(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("subscribing loading service: %w", err)
	}
	app.LoadingSvc = loadingSvc

	app.MCPServer = mcptransport.New(reg, loadingSvc)

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(ctx, loadingSvc, conversationSvc, hub, app.MCPServer.Handler(), eventBus)

	app.Server = &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	// ── Event-Driven Eviction Reaper ──────────────────────────────────────────
	app.reaper = newReaper(cfg.ReaperGrace, loadingSvc.Forget)
	if err := app.reaper.start(ctx, eventBus); err != nil {
		slog.Error("reaper: not started", "error", err)
	}

	slog.Info("application wired", "addr", cfg.Addr())
	return app, nil
}

// Close stops background work and releases the database pool.
func (a *App) Close() {
	if a.reaper != nil {
		a.reaper.stop()
	}
	if a.pgBus != nil {
		a.pgBus.Close()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
