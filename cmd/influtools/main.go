// Command influtools runs the InfluTools API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Aymanking75/infultools/internal/dotenv"
	"github.com/Aymanking75/infultools/internal/server"
	"github.com/Aymanking75/infultools/pkg/billing"
	"github.com/Aymanking75/infultools/pkg/gemini"
	"github.com/Aymanking75/infultools/pkg/history"
	"github.com/Aymanking75/infultools/pkg/identity"
)

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := server.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey},
		gemini.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create backend client: %w", err)
	}

	opts := []server.Option{server.WithLogger(logger)}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		if err := history.Migrate(ctx, pool); err != nil {
			return err
		}
		opts = append(opts, server.WithHistory(history.NewPostgresSink(pool)))
		logger.Info("history ledger on postgres")
	} else {
		logger.Warn("DATABASE_URL not set, history is in-memory")
	}

	if cfg.WorkOSAPIKey != "" {
		provider, err := identity.NewWorkOSProvider(cfg.WorkOSAPIKey)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithIdentity(provider))
	} else {
		logger.Warn("WORKOS_API_KEY not set, identity lookups resolve to signed out")
	}

	if cfg.StripeAPIKey != "" {
		checkout, err := billing.NewStripeCheckout(cfg.StripeAPIKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithCheckout(checkout))
	} else {
		logger.Warn("STRIPE_API_KEY not set, billing routes disabled")
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(client, opts...).Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}

	logger.Info("starting api server", "addr", cfg.Addr)

	listenErrCh := make(chan error, 1)
	go func() {
		err := httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErrCh <- err
			return
		}
		listenErrCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-listenErrCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-listenErrCh
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := dotenv.LoadFile(".env"); err != nil {
		logger.Warn("could not load .env", "error", err)
	}
	if err := run(context.Background(), logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
