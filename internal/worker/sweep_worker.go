package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/waghrental/rentledger/internal/finance"
	"github.com/waghrental/rentledger/internal/observability/metrics"
	"github.com/waghrental/rentledger/internal/reliability/retry"
	"github.com/waghrental/rentledger/internal/service"
)

// Reporter is the slice of the report service the sweep reads.
type Reporter interface {
	Summary(ctx context.Context, asOf time.Time) (finance.SummaryRecord, error)
	Missing(ctx context.Context, month finance.MonthKey) (service.MissingReport, error)
}

// SweepWorker periodically recomputes the current month's collection
// figures and publishes them as gauges. It never writes to the ledger: a
// pending payment past its grace period is reported late, not rewritten.
type SweepWorker struct {
	reports  Reporter
	logger   *slog.Logger
	interval time.Duration
	retry    *retry.Config
	now      func() time.Time
}

// NewSweepWorker creates a new ledger sweep worker
func NewSweepWorker(reports Reporter, logger *slog.Logger, interval time.Duration) *SweepWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SweepWorker{
		reports:  reports,
		logger:   logger.With(slog.String("component", "sweep")),
		interval: interval,
		retry:    retry.DefaultConfig(),
		now:      time.Now,
	}
}

// Start runs one sweep immediately and then one per interval until ctx
// is cancelled.
func (w *SweepWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("sweep worker started", slog.Duration("interval", w.interval))
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweep worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SweepWorker) runOnce(ctx context.Context) {
	snap, err := retry.Do(ctx, w.retry, w.logger, "ledger_sweep", w.Sweep)
	metrics.ObserveSweep(err)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("ledger sweep failed", slog.String("error", err.Error()))
		}
		return
	}
	metrics.SetLedger(snap)
}

// Sweep computes the gauges for the month containing now.
func (w *SweepWorker) Sweep(ctx context.Context) (metrics.LedgerSnapshot, error) {
	asOf := w.now()
	summary, err := w.reports.Summary(ctx, asOf)
	if err != nil {
		return metrics.LedgerSnapshot{}, fmt.Errorf("summary: %w", err)
	}
	missing, err := w.reports.Missing(ctx, summary.Month)
	if err != nil {
		return metrics.LedgerSnapshot{}, fmt.Errorf("missing payments: %w", err)
	}

	snap := metrics.LedgerSnapshot{
		ExpectedRent:   summary.ExpectedMonthlyRent,
		Collected:      summary.CollectedThisMonth,
		CollectionRate: summary.CollectionRate,
		ActiveTenants:  summary.ActiveTenants,
		LatePayments:   summary.LatePayments,
		MissingTenants: len(missing.Entries),
	}
	w.logger.Info("ledger sweep complete",
		slog.String("month", summary.Month.String()),
		slog.Int("active_tenants", snap.ActiveTenants),
		slog.String("expected_rent", snap.ExpectedRent.StringFixed(2)),
		slog.String("collected", snap.Collected.StringFixed(2)),
		slog.Int("late_payments", snap.LatePayments),
		slog.Int("missing_tenants", snap.MissingTenants),
	)
	return snap, nil
}
