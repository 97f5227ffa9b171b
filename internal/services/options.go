package services

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/sale-notifier/internal/app/sale/domain"
	"github.com/light-bringer/sale-notifier/internal/app/sale/repo"
	"github.com/light-bringer/sale-notifier/internal/app/sale/resolve"
	"github.com/light-bringer/sale-notifier/internal/app/sale/retry"
	"github.com/light-bringer/sale-notifier/internal/app/sale/usecases/process_sale"
	"github.com/light-bringer/sale-notifier/internal/config"
	"github.com/light-bringer/sale-notifier/internal/integrations/sendgrid"
	"github.com/light-bringer/sale-notifier/internal/integrations/tinyerp"
	"github.com/light-bringer/sale-notifier/internal/pkg/clock"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	ReadModel     *repo.AnalyticalReadModel
	Engine        *resolve.Engine
	Scheduler     *retry.Scheduler
	ProcessSale   *process_sale.Interactor
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ServiceOptions, error) {
	// 1. Initialize Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// 2. Create infrastructure components
	clk := clock.NewRealClock()
	loc := cfg.Location()

	// 3. Create read models and external clients
	readModel := repo.NewAnalyticalReadModel(spannerClient, cfg.AnalyticalMaxStaleness, loc.String())
	erp := tinyerp.NewClient(cfg.TinyAPIURL, cfg.TinyAPIToken, cfg.ERPTimeout, log)
	dispatcher := sendgrid.NewDispatcher(cfg.Email.SendGridAPIKey, sendgrid.Options{
		TemplateID:       cfg.Email.TemplateID,
		FromAddress:      cfg.Email.FromAddress,
		FromName:         cfg.Email.FromName,
		ASMGroupID:       cfg.Email.ASMGroupID,
		ASMGroupsDisplay: cfg.Email.ASMGroupsDisplay,
		TestMode:         cfg.Email.TestMode,
		TestRecipient:    cfg.Email.TestRecipient,
	}, log)

	// 4. Create resolution engine and retry scheduler
	engine := resolve.NewEngine(readModel, erp, log)
	scheduler := retry.NewScheduler(engine, cfg.Retry, clk,
		retry.WithFallback(erp),
		retry.WithLogger(log),
		retry.WithObserver(func(a domain.ResolutionAttempt) {
			log.Debug("purchase_probe",
				"sale_id", a.PurchaseID,
				"attempt", a.Attempt,
				"outcome", a.Outcome,
				"elapsed_wait", a.ElapsedWait.String(),
			)
		}),
	)

	// 5. Create the use case
	processSale := process_sale.NewInteractor(engine, scheduler, dispatcher, clk,
		process_sale.WithTaxDocuments(erp),
		process_sale.WithLoyalty(readModel, cfg.LoyaltySinceIn(loc), loc),
		process_sale.WithLogger(log),
	)

	return &ServiceOptions{
		SpannerClient: spannerClient,
		ReadModel:     readModel,
		Engine:        engine,
		Scheduler:     scheduler,
		ProcessSale:   processSale,
	}, nil
}

// NewAnalyticalOptions wires only the analytical read path, for commands
// that never call the ERP or send mail.
func NewAnalyticalOptions(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ServiceOptions, error) {
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	readModel := repo.NewAnalyticalReadModel(spannerClient, cfg.AnalyticalMaxStaleness, cfg.Location().String())

	return &ServiceOptions{
		SpannerClient: spannerClient,
		ReadModel:     readModel,
		Engine:        resolve.NewEngine(readModel, nil, log),
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
