package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
	"github.com/light-bringer/sale-notifier/internal/services"
)

func probeCmd() *cobra.Command {
	var (
		contactKey string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "probe [sale-id]",
		Short: "Probe the analytical store once for a purchase",
		Long: `Probe the analytical store once for a purchase and print it.

A purchase that has not fully propagated is reported as not available.
With --contact, the contact is looked up in the analytical store too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if err := cfg.ValidateAnalytical(); err != nil {
				return err
			}
			log := initLogger(cfg, cmd.ErrOrStderr())

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			svc, err := services.NewAnalyticalOptions(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize service: %w", err)
			}
			defer svc.Close()

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")

			if contactKey != "" {
				contact, err := svc.Engine.ResolveContact(ctx, contactKey)
				switch {
				case errors.Is(err, domain.ErrNotFound):
					fmt.Fprintf(out, "contact %s: not found\n", contactKey)
				case err != nil:
					return err
				default:
					if err := enc.Encode(contact); err != nil {
						return err
					}
				}
			}

			purchase, err := svc.Engine.ResolvePurchase(ctx, args[0])
			if errors.Is(err, domain.ErrNotAvailable) {
				fmt.Fprintf(out, "purchase %s: not available\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			return enc.Encode(purchase)
		},
	}

	cmd.Flags().StringVar(&contactKey, "contact", "", "also resolve this CPF/CNPJ")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "probe timeout")
	return cmd
}
