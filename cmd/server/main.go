package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/weedz/secrets/internal/app"
	"github.com/weedz/secrets/internal/config"
	"github.com/weedz/secrets/internal/ratelimit"
	"github.com/weedz/secrets/internal/secrets"
	"github.com/weedz/secrets/internal/store"
	"github.com/weedz/secrets/internal/sweep"
)

func main() {
	log := clog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := clog.WithLogger(context.Background(), log)

	if err := run(ctx); err != nil {
		log.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := clog.FromContext(ctx)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	limiter := ratelimit.New(ratelimit.Config{
		GlobalLimit:   cfg.GlobalRateLimit,
		AddressWindow: cfg.AddressWindow,
		Tick:          cfg.RateTick,
	})
	sweeper := sweep.New(st, cfg.SweepInterval)
	handler := app.NewHandler(secrets.NewService(st), limiter)

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           app.NewRouter(handler, app.RouterConfig{RequireHTTPS: cfg.RequireHTTPS}),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return limiter.Run(ctx) })
	g.Go(func() error { return sweeper.Run(ctx) })
	g.Go(func() error {
		log.Infof("listening on %s", cfg.ListenAddr())
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newStore(cfg config.Config) (store.SecretStore, error) {
	if cfg.RedisURL == "" {
		return store.NewMemoryStore(), nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return store.NewRedisStore(opt)
}
