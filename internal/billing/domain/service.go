package domain

import (
	"context"
	"errors"

	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
)

// RunKind names the two collection entry points.
type RunKind string

const (
	RunKindMonthlyCycle RunKind = "monthly_cycle"
	RunKindRetrySweep   RunKind = "retry_sweep"
)

// RunReport summarizes one batch run.
type RunReport struct {
	Kind           RunKind `json:"kind"`
	RunID          string  `json:"run_id"`
	Fetched        int     `json:"fetched"`
	Paid           int     `json:"paid"`
	RetryScheduled int     `json:"retry_scheduled"`
	Failed         int     `json:"failed"`
	Skipped        int     `json:"skipped"`
}

// Service drives invoice collection. Both entry points are synchronous and
// idempotent per call: each processes whatever the store currently reports
// for the relevant status.
type Service interface {
	// BillClients charges every PENDING invoice.
	BillClients(ctx context.Context) (RunReport, error)
	// RetryFailedInvoices re-attempts every RETRYABLE_FAILED invoice.
	RetryFailedInvoices(ctx context.Context) (RunReport, error)
}

// Notifier tells a customer their invoice needs action.
type Notifier interface {
	NotifyCurrencyMismatch(ctx context.Context, invoice invoicedomain.Invoice) error
}

// Escalator opens an operator ticket for an invoice retrying cannot fix.
type Escalator interface {
	EscalateCustomerNotFound(ctx context.Context, invoiceID snowflake.ID) (snowflake.ID, error)
}

var (
	// ErrRunInProgress rejects a trigger firing while a previous run is
	// still active, so no invoice can be charged twice concurrently.
	ErrRunInProgress = errors.New("billing_run_in_progress")
)
