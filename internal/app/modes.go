package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cedarhall/gavelhouse/internal/auction"
	s3blob "github.com/cedarhall/gavelhouse/internal/blob/s3"
	"github.com/cedarhall/gavelhouse/internal/server"
	"github.com/cedarhall/gavelhouse/internal/server/handler"
	"github.com/cedarhall/gavelhouse/internal/server/ws"
)

// shutdownGrace is how long in-flight requests get to finish after the run
// context is cancelled.
const shutdownGrace = 10 * time.Second

// ServeMode runs the auction server: the WebSocket hub, the admission engine,
// and the HTTP API. It blocks until the context is cancelled.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode",
		slog.Time("ends_at", a.cfg.Auction.EndTime.Time),
		slog.Float64("min_increment", a.cfg.Auction.MinIncrement),
	)

	window := auction.NewWindow(a.cfg.Auction.StartTime.Time, a.cfg.Auction.EndTime.Time)

	hub := ws.NewHub(a.logger)

	engine := auction.NewEngine(deps.Items, window, a.cfg.Auction.MinIncrement, a.logger).
		WithBroadcaster(hub).
		WithNotifier(deps.Notifier)
	if deps.SignalBus != nil {
		engine = engine.WithSignalBus(deps.SignalBus)
	}

	catalog := auction.NewCatalog(deps.Items, deps.Bids)
	compiler := auction.NewCompiler(deps.Items, deps.Bids)

	var archiver handler.ResultsArchiver
	if deps.BlobWriter != nil {
		archiver = s3blob.NewArchiver(deps.BlobWriter, compiler)
	}

	handlers := server.Handlers{
		Health:  handler.NewHealthHandler(a.logger),
		Auction: handler.NewAuctionHandler(window),
		Items:   handler.NewItemHandler(catalog, a.logger),
		Bids:    handler.NewBidHandler(engine, a.logger),
		Admin:   handler.NewAdminHandler(a.cfg.Admin.Token, compiler, archiver, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:          a.cfg.Server.Port,
		CORSOrigins:   a.cfg.Server.CORSOrigins,
		BidRateLimit:  a.cfg.Server.BidRateLimit,
		BidRateWindow: a.cfg.Server.BidRateWindow.Duration,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(ctx)
	})

	g.Go(func() error {
		return srv.Start()
	})

	// Shut the HTTP server down when the run context is cancelled so Start
	// returns and the group can drain.
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return fmt.Errorf("app: serve mode: %w", err)
	}
	return nil
}

// SeedMode populates the item catalog with the default items and exits. It is
// a no-op when items already exist.
func (a *App) SeedMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting seed mode")

	seeder := auction.NewSeeder(deps.Items, a.logger)
	n, err := seeder.Seed(ctx, auction.DefaultItems)
	if err != nil {
		return fmt.Errorf("app: seed mode: %w", err)
	}

	a.logger.InfoContext(ctx, "seed complete", slog.Int("items_inserted", n))
	return nil
}
