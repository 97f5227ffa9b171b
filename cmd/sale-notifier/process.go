package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
	"github.com/light-bringer/sale-notifier/internal/services"
	transport "github.com/light-bringer/sale-notifier/internal/transport/http"
)

func processCmd() *cobra.Command {
	var payloadPath string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process one sale webhook payload and print the outcome",
		Long: `Process one sale webhook payload end to end.

Examples:
  sale-notifier process --payload event.json
  cat event.json | sale-notifier process --payload -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readPayload(cmd.InOrStdin(), payloadPath)
			if err != nil {
				return err
			}

			cfg := loadConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := initLogger(cfg, cmd.ErrOrStderr())

			ctx := context.Background()
			if cfg.InvocationBudget > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.InvocationBudget)
				defer cancel()
			}

			svc, err := services.NewServiceOptions(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize service: %w", err)
			}
			defer svc.Close()

			outcome := svc.ProcessSale.Execute(ctx, raw)
			if err := printOutcome(cmd.OutOrStdout(), outcome); err != nil {
				return err
			}
			if outcome.Status == domain.OutcomeFailed {
				return fmt.Errorf("sale event failed: %w", outcome.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&payloadPath, "payload", "p", "-", "payload file, or - for stdin")
	return cmd
}

func readPayload(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload from stdin: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return raw, nil
}

func printOutcome(w io.Writer, o domain.Outcome) error {
	resp := transport.OutcomeResponse{
		Outcome:    string(o.Status),
		Reason:     o.Reason,
		DispatchID: o.DispatchID,
	}
	if o.Err != nil {
		resp.Error = o.Err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
