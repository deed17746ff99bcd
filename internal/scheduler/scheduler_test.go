package scheduler

import (
	"context"
	"testing"
	"time"

	billingdomain "github.com/Markinhos/antaeus/internal/billing/domain"
	"github.com/Markinhos/antaeus/internal/clock"
	"github.com/Markinhos/antaeus/internal/config"
	"go.uber.org/zap"
)

type fakeBilling struct {
	monthlyRuns int
	sweepRuns   int
	err         error
}

func (b *fakeBilling) BillClients(context.Context) (billingdomain.RunReport, error) {
	b.monthlyRuns++
	return billingdomain.RunReport{Kind: billingdomain.RunKindMonthlyCycle}, b.err
}

func (b *fakeBilling) RetryFailedInvoices(context.Context) (billingdomain.RunReport, error) {
	b.sweepRuns++
	return billingdomain.RunReport{Kind: billingdomain.RunKindRetrySweep}, b.err
}

func newTestScheduler(billing *fakeBilling, at time.Time) *Scheduler {
	return New(Params{
		Log:     zap.NewNop(),
		Billing: billing,
		Clock:   clock.Fixed{At: at},
		Config:  config.BillingConfig{},
	})
}

func TestTickRunsMonthlyCycleOnFirstOfMonth(t *testing.T) {
	billing := &fakeBilling{}
	s := newTestScheduler(billing, time.Date(2024, time.March, 1, 6, 0, 0, 0, time.UTC))

	s.Tick(context.Background())

	if billing.monthlyRuns != 1 {
		t.Fatalf("expected 1 monthly run, got %d", billing.monthlyRuns)
	}
	if billing.sweepRuns != 0 {
		t.Fatalf("expected no retry sweep on the first, got %d", billing.sweepRuns)
	}
}

func TestTickRunsRetrySweepOnOtherDays(t *testing.T) {
	billing := &fakeBilling{}
	s := newTestScheduler(billing, time.Date(2024, time.March, 15, 6, 0, 0, 0, time.UTC))

	s.Tick(context.Background())

	if billing.sweepRuns != 1 {
		t.Fatalf("expected 1 retry sweep, got %d", billing.sweepRuns)
	}
	if billing.monthlyRuns != 0 {
		t.Fatalf("expected no monthly run mid-month, got %d", billing.monthlyRuns)
	}
}

func TestTickSkipsWhenRunInProgress(t *testing.T) {
	billing := &fakeBilling{err: billingdomain.ErrRunInProgress}
	s := newTestScheduler(billing, time.Date(2024, time.March, 1, 6, 0, 0, 0, time.UTC))

	// Must not panic or retry; the next tick picks the work up.
	s.Tick(context.Background())

	if billing.monthlyRuns != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", billing.monthlyRuns)
	}
}

func TestStartAndStop(t *testing.T) {
	billing := &fakeBilling{}
	s := newTestScheduler(billing, time.Date(2024, time.March, 15, 6, 0, 0, 0, time.UTC))

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
