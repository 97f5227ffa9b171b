package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
	"github.com/light-bringer/sale-notifier/internal/services"
	transport "github.com/light-bringer/sale-notifier/internal/transport/http"
)

const shutdownTimeout = 15 * time.Second

// budgeted bounds every event by the invocation budget, as a one-shot
// invocation would be.
type budgeted struct {
	next   transport.SaleProcessor
	budget time.Duration
}

func (b budgeted) Execute(ctx context.Context, raw []byte) domain.Outcome {
	if b.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.budget)
		defer cancel()
	}
	return b.next.Execute(ctx, raw)
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sale webhook over HTTP",
		Long: `Serve the sale webhook over HTTP.

Routes:
  POST /api/v1/sales/events   process one sale event synchronously
  GET  /healthz               liveness`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := initLogger(cfg, os.Stdout)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := services.NewServiceOptions(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize service: %w", err)
			}
			defer svc.Close()

			processor := budgeted{next: svc.ProcessSale, budget: cfg.InvocationBudget}
			server := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           transport.NewRouter(processor, log),
				ReadHeaderTimeout: 10 * time.Second,
				WriteTimeout:      cfg.InvocationBudget + shutdownTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("http_server_listening", "addr", cfg.HTTPAddr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("HTTP server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("http_server_shutting_down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down HTTP server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address; overrides HTTP_ADDR")
	return cmd
}
