package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/livepoll/internal/adapters/handler/http"
	"github.com/vncsmyrnk/livepoll/internal/adapters/handler/ws"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/livepoll/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/livepoll/internal/config"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
	"github.com/vncsmyrnk/livepoll/internal/core/services"
)

const (
	exitOK      = 0
	exitConfig  = 1
	exitRuntime = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "livepoll: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	polls, closeStore, err := openPollRepository(ctx, cfg)
	if err != nil {
		return exitConfig, err
	}
	defer closeStore()

	hub := ws.NewHub(log)
	loop := services.NewLoop(cfg.LoopBuffer, log)
	fanout := services.NewFanout(hub, services.AnnounceScope(cfg.AnnounceScope))
	lifecycle := services.NewLifecycleService(
		memory.NewSessionStore(),
		memory.NewVoteLedger(),
		hub,
		fanout,
		loop,
		services.LifecycleConfig{
			DefaultDuration: cfg.DefaultSessionDuration,
			Retention:       cfg.EndedSessionRetention,
		},
		log,
	)
	dispatcher := services.NewDispatcher(lifecycle, fanout, log)

	socket := ws.NewHandler(hub, loop, dispatcher, ws.Config{
		OutboundBuffer: cfg.OutboundBuffer,
		AllowedOrigins: cfg.AllowedOrigins,
	}, log)
	handler := http.NewHandler(
		http.NewPollHandler(services.NewPollService(polls), log),
		http.NewSessionHandler(services.NewSessionQuery(loop, lifecycle), log),
		http.NewHealthHandler(time.Now()),
		socket,
		http.RouterConfig{
			AllowedOrigins:     cfg.AllowedOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		},
	)
	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: handler}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(loopCtx) })
	g.Go(func() error {
		log.Info("Listening", "addr", cfg.HTTPAddr, "poll_store", cfg.PollStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		hub.CloseAll()
		waitForConnections(shutdownCtx, hub)
		stopLoop()
		return err
	})

	if err := g.Wait(); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

// waitForConnections gives socket readers time to run their disconnect
// handling before the loop stops.
func waitForConnections(ctx context.Context, hub *ws.Hub) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for hub.Len() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func openPollRepository(ctx context.Context, cfg config.Config) (ports.PollRepository, func(), error) {
	switch cfg.PollStore {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewPollRepository(db), func() { _ = db.Close() }, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return memory.NewPollRepository(), func() {}, nil
	}
}
