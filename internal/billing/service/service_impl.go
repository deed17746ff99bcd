package service

import (
	"context"
	"errors"
	"sync"
	"time"

	billingdomain "github.com/Markinhos/antaeus/internal/billing/domain"
	"github.com/Markinhos/antaeus/internal/billing/retry"
	"github.com/Markinhos/antaeus/internal/config"
	"github.com/Markinhos/antaeus/internal/events"
	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	obscontext "github.com/Markinhos/antaeus/internal/observability/context"
	"github.com/Markinhos/antaeus/internal/observability/logger"
	"github.com/Markinhos/antaeus/internal/observability/metrics"
	"github.com/Markinhos/antaeus/internal/observability/tracing"
	paymentdomain "github.com/Markinhos/antaeus/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is the billing orchestrator. It owns every invoice status
// transition after creation and dispatches to the notification and
// escalation sinks based on failure classification.
type Service struct {
	log        *zap.Logger
	invoices   invoicedomain.Repository
	gateway    paymentdomain.Gateway
	notifier   billingdomain.Notifier
	escalator  billingdomain.Escalator
	outbox     *events.Outbox
	genID      *snowflake.Node
	tracer     trace.Tracer
	billingMtx *metrics.BillingMetrics
	cfg        config.BillingConfig
	policy     retry.Policy

	// runMu serializes runs across both entry points so the same invoice
	// can never have two charge sequences in flight.
	runMu sync.Mutex
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Invoices  invoicedomain.Repository
	Gateway   paymentdomain.Gateway
	Notifier  billingdomain.Notifier
	Escalator billingdomain.Escalator
	Outbox    *events.Outbox `optional:"true"`
	GenID     *snowflake.Node
	Config    config.BillingConfig `optional:"true"`
}

func NewService(p Params) billingdomain.Service {
	cfg := p.Config.WithDefaults()
	return &Service{
		log:        p.Log.Named("billing.service"),
		invoices:   p.Invoices,
		gateway:    p.Gateway,
		notifier:   p.Notifier,
		escalator:  p.Escalator,
		outbox:     p.Outbox,
		genID:      p.GenID,
		tracer:     otel.Tracer("antaeus/billing"),
		billingMtx: metrics.Billing(),
		cfg:        cfg,
		policy: retry.Policy{
			MaxAttempts: cfg.MaxAttempts,
			Retryable:   paymentdomain.IsTransient,
		},
	}
}

func (s *Service) BillClients(ctx context.Context) (billingdomain.RunReport, error) {
	return s.run(ctx, billingdomain.RunKindMonthlyCycle, invoicedomain.InvoiceStatusPending)
}

func (s *Service) RetryFailedInvoices(ctx context.Context) (billingdomain.RunReport, error) {
	return s.run(ctx, billingdomain.RunKindRetrySweep, invoicedomain.InvoiceStatusRetryableFailed)
}

func (s *Service) run(
	ctx context.Context,
	kind billingdomain.RunKind,
	candidate invoicedomain.InvoiceStatus,
) (billingdomain.RunReport, error) {
	report := billingdomain.RunReport{Kind: kind}
	if !s.runMu.TryLock() {
		return report, billingdomain.ErrRunInProgress
	}
	defer s.runMu.Unlock()

	runID := s.genID.Generate().String()
	report.RunID = runID
	ctx = obscontext.WithRunID(ctx, runID)

	ctx, span := s.tracer.Start(ctx, "billing.run",
		trace.WithAttributes(attribute.String("billing.run_kind", string(kind))),
	)
	defer span.End()

	start := time.Now()
	log := logger.FromContext(ctx)

	log.Info("billing run started", zap.String("kind", string(kind)))

	// Pages advance on id > lastID, so an invoice that keeps its candidate
	// status after processing is never fetched twice within one run.
	var lastID snowflake.ID
	for {
		invoices, err := s.invoices.FetchByStatus(ctx, candidate, lastID, s.cfg.BatchSize)
		if err != nil {
			log.Error("failed to fetch invoice batch", zap.Error(err))
			return report, err
		}
		if len(invoices) == 0 {
			break
		}
		report.Fetched += len(invoices)
		lastID = invoices[len(invoices)-1].ID

		var (
			mu    sync.Mutex
			group errgroup.Group
		)
		group.SetLimit(s.cfg.Concurrency)
		for _, invoice := range invoices {
			invoice := invoice
			group.Go(func() error {
				outcome := s.processInvoice(ctx, invoice, candidate)
				mu.Lock()
				switch outcome {
				case invoicedomain.InvoiceStatusPaid:
					report.Paid++
				case invoicedomain.InvoiceStatusRetryableFailed:
					report.RetryScheduled++
				case invoicedomain.InvoiceStatusFailed:
					report.Failed++
				default:
					report.Skipped++
				}
				mu.Unlock()
				return nil
			})
		}
		_ = group.Wait()
	}

	s.billingMtx.SetRunBatchSize(string(kind), report.Fetched)
	s.billingMtx.ObserveRunDuration(string(kind), time.Since(start))
	log.Info("billing run finished",
		zap.String("kind", string(kind)),
		zap.Int("fetched", report.Fetched),
		zap.Int("paid", report.Paid),
		zap.Int("retry_scheduled", report.RetryScheduled),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", time.Since(start)),
	)
	return report, nil
}

// processInvoice runs the full charge sequence for one invoice and returns
// the status it ended in, or the empty status when the invoice was skipped.
// It never lets a failure escape to the batch.
func (s *Service) processInvoice(
	ctx context.Context,
	invoice invoicedomain.Invoice,
	candidate invoicedomain.InvoiceStatus,
) invoicedomain.InvoiceStatus {
	if invoice.Status != candidate || !invoice.Status.IsChargeable() {
		return ""
	}

	ctx, span := s.tracer.Start(ctx, "billing.process_invoice",
		trace.WithAttributes(tracing.SafeAttributes(
			attribute.String("invoice.id", invoice.ID.String()),
		)...),
	)
	defer span.End()

	log := logger.FromContext(ctx).With(
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("customer_id", invoice.CustomerID.String()),
	)

	accepted, chargeErr := s.policy.Execute(ctx, func(ctx context.Context) (bool, error) {
		ok, err := s.gateway.Charge(ctx, invoice)
		s.billingMtx.IncChargeAttempt(attemptResult(ok, err))
		return ok, err
	})

	kind := paymentdomain.Classify(chargeErr)
	span.SetAttributes(tracing.SafeAttributes(
		attribute.String("billing.failure_kind", string(kind)),
	)...)
	if chargeErr != nil {
		span.RecordError(tracing.SafeError(chargeErr))
	}

	var (
		next     invoicedomain.InvoiceStatus
		event    string
		reason   string
		ticketID snowflake.ID
	)
	switch kind {
	case paymentdomain.FailureKindNone:
		if accepted {
			next = invoicedomain.InvoiceStatusPaid
			event = events.EventInvoicePaid
		} else {
			next = invoicedomain.InvoiceStatusRetryableFailed
			event = events.EventInvoiceRetryScheduled
			reason = "declined"
		}

	case paymentdomain.FailureKindCurrencyMismatch:
		if err := s.notifier.NotifyCurrencyMismatch(ctx, invoice); err != nil {
			log.Warn("currency mismatch notification failed", zap.Error(err))
		}
		next = invoicedomain.InvoiceStatusRetryableFailed
		event = events.EventInvoiceRetryScheduled
		reason = string(kind)

	case paymentdomain.FailureKindCustomerNotFound:
		id, err := s.escalator.EscalateCustomerNotFound(ctx, invoice.ID)
		if err != nil {
			log.Warn("escalation failed", zap.Error(err))
		}
		ticketID = id
		next = invoicedomain.InvoiceStatusFailed
		event = events.EventInvoiceFailed
		reason = string(kind)

	default:
		// Exhausted transient and unclassified failures stay recoverable.
		next = invoicedomain.InvoiceStatusRetryableFailed
		event = events.EventInvoiceRetryScheduled
		reason = string(kind)
		log.Warn("charge failed, invoice scheduled for retry", zap.Error(chargeErr))
	}

	// The status write must land even when the surrounding process is
	// shutting down: no invoice may be left mid-update.
	upctx := context.WithoutCancel(ctx)
	updated, err := s.invoices.Update(upctx, invoice.ID, invoice.Amount(), invoice.CustomerID, next)
	if err != nil {
		if errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
			log.Error("invoice disappeared during processing", zap.Error(err))
			return ""
		}
		log.Error("invoice status update failed",
			zap.String("next_status", string(next)),
			zap.Error(err),
		)
		return ""
	}

	s.billingMtx.IncInvoiceOutcome(string(next))
	s.publishOutcome(upctx, *updated, event, reason, ticketID)
	log.Info("invoice processed", zap.String("status", string(next)))
	return next
}

// publishOutcome records the status transition event and, when the
// transition raised a ticket, a companion escalation event.
func (s *Service) publishOutcome(
	ctx context.Context,
	invoice invoicedomain.Invoice,
	event string,
	reason string,
	ticketID snowflake.ID,
) {
	if s.outbox == nil {
		return
	}
	s.publishEvent(ctx, invoice, event, reason, ticketID)
	if ticketID != 0 {
		s.publishEvent(ctx, invoice, events.EventInvoiceEscalated, reason, ticketID)
	}
}

func (s *Service) publishEvent(
	ctx context.Context,
	invoice invoicedomain.Invoice,
	event string,
	reason string,
	ticketID snowflake.ID,
) {
	payload := events.InvoiceOutcomePayload{
		InvoiceID:  invoice.ID.String(),
		CustomerID: invoice.CustomerID.String(),
		Status:     string(invoice.Status),
		Reason:     reason,
	}
	if ticketID != 0 {
		payload.TicketID = ticketID.String()
	}
	err := s.outbox.Publish(ctx, events.Event{
		Type:      event,
		Payload:   payload.ToMap(),
		DedupeKey: invoice.ID.String() + ":" + obscontext.RunIDFromContext(ctx) + ":" + event,
	})
	if err != nil {
		logger.FromContext(ctx).Warn("billing event publish failed",
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

func attemptResult(accepted bool, err error) string {
	if err == nil {
		if accepted {
			return "accepted"
		}
		return "declined"
	}
	return string(paymentdomain.Classify(err))
}
