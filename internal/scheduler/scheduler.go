package scheduler

import (
	"context"
	"errors"

	billingdomain "github.com/Markinhos/antaeus/internal/billing/domain"
	"github.com/Markinhos/antaeus/internal/clock"
	"github.com/Markinhos/antaeus/internal/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Scheduler fires the daily billing tick: the monthly cycle on the first day
// of the month, the retry sweep on every other day. The collection engine
// itself owns no clock; it only reacts to these triggers.
type Scheduler struct {
	log     *zap.Logger
	billing billingdomain.Service
	clock   clock.Clock
	cfg     config.BillingConfig
	cron    *cron.Cron

	cancel context.CancelFunc
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Billing billingdomain.Service
	Clock   clock.Clock
	Config  config.BillingConfig `optional:"true"`
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:     p.Log.Named("scheduler"),
		billing: p.Billing,
		clock:   p.Clock,
		cfg:     p.Config.WithDefaults(),
		cron:    cron.New(),
	}
}

// Start registers the daily entry and starts the cron loop.
func (s *Scheduler) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	_, err := s.cron.AddFunc(s.cfg.TickSchedule, func() {
		s.Tick(ctx)
	})
	if err != nil {
		cancel()
		return err
	}
	s.cron.Start()
	s.log.Info("billing scheduler started", zap.String("schedule", s.cfg.TickSchedule))
	return nil
}

// Stop halts the cron loop and waits for a running entry to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		defer s.cancel()
	}
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick runs the entry point the current date calls for. A run already in
// progress is skipped, not queued: the next tick will pick the work up.
func (s *Scheduler) Tick(ctx context.Context) {
	var (
		report billingdomain.RunReport
		err    error
	)
	if s.clock.Now().Day() == 1 {
		report, err = s.billing.BillClients(ctx)
	} else {
		report, err = s.billing.RetryFailedInvoices(ctx)
	}
	if err != nil {
		if errors.Is(err, billingdomain.ErrRunInProgress) {
			s.log.Warn("previous billing run still active, tick skipped")
			return
		}
		s.log.Error("billing tick failed", zap.Error(err))
		return
	}
	s.log.Info("billing tick completed",
		zap.String("kind", string(report.Kind)),
		zap.String("run_id", report.RunID),
		zap.Int("fetched", report.Fetched),
	)
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, s *Scheduler) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				return s.Start()
			},
			OnStop: func(ctx context.Context) error {
				return s.Stop(ctx)
			},
		})
	}),
)
