package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/waghrental/rentledger/internal/domain"
	"github.com/waghrental/rentledger/internal/finance"
	"github.com/waghrental/rentledger/internal/observability/metrics"
	"github.com/waghrental/rentledger/internal/observability/tracing"
)

const snapshotCacheKey = "snapshot"

// SnapshotLoader reads the full record set in one consistent pass.
type SnapshotLoader interface {
	Load(ctx context.Context) (finance.Snapshot, error)
}

// ReportService builds every derived view from a snapshot. It never
// reads the clock itself: callers pass asOf explicitly.
type ReportService struct {
	loader   SnapshotLoader
	cache    ReportCache
	cacheTTL time.Duration
	policy   finance.StatusPolicy
	logger   *slog.Logger
}

// NewReportService creates a report service. A zero cacheTTL disables
// snapshot caching.
func NewReportService(loader SnapshotLoader, cache ReportCache, cacheTTL time.Duration, policy finance.StatusPolicy, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{loader: loader, cache: cache, cacheTTL: cacheTTL, policy: policy, logger: logger}
}

// Policy returns the late-payment rule in force.
func (s *ReportService) Policy() finance.StatusPolicy {
	return s.policy
}

// Snapshot returns the current record set, from cache when fresh. The
// cache generation is read before loading so that a snapshot which raced a
// write is stored under a retired generation and never served.
func (s *ReportService) Snapshot(ctx context.Context) (finance.Snapshot, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil && s.cacheTTL > 0 {
		gen, cacheable = s.cache.Generation(ctx)
	}
	if cacheable {
		var cached finance.Snapshot
		if s.cache.Get(ctx, gen, snapshotCacheKey, &cached) {
			return cached, nil
		}
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return finance.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if cacheable {
		s.cache.Set(ctx, gen, snapshotCacheKey, snap, s.cacheTTL)
	}
	return snap, nil
}

// build loads a snapshot and runs fn on it inside a span, timing it.
func build[T any](ctx context.Context, s *ReportService, name string, fn func(finance.Snapshot) T) (T, error) {
	ctx, span := tracing.Start(ctx, "report."+name)
	defer span.End()

	var zero T
	snap, err := s.Snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		return zero, err
	}
	start := time.Now()
	out := fn(snap)
	metrics.ObserveReport(name, time.Since(start))
	span.SetAttributes(
		attribute.Int("ledger.tenants", len(snap.Tenants)),
		attribute.Int("ledger.payments", len(snap.Payments)),
		attribute.Int("ledger.expenses", len(snap.Expenses)),
	)
	return out, nil
}

// Summary computes the headline collection figures for asOf's month.
func (s *ReportService) Summary(ctx context.Context, asOf time.Time) (finance.SummaryRecord, error) {
	return build(ctx, s, "summary", func(snap finance.Snapshot) finance.SummaryRecord {
		return s.policy.SummaryStats(snap.Tenants, snap.Payments, snap.Expenses, asOf)
	})
}

// Dashboard computes the portfolio overview.
func (s *ReportService) Dashboard(ctx context.Context, asOf time.Time) (finance.Dashboard, error) {
	return build(ctx, s, "dashboard", func(snap finance.Snapshot) finance.Dashboard {
		return s.policy.BuildDashboard(snap, asOf)
	})
}

// Months returns payment, expense and net totals per month, newest first.
func (s *ReportService) Months(ctx context.Context) (finance.MonthlyReport, error) {
	return build(ctx, s, "months", finance.BuildMonthlyReport)
}

// MonthDetail lists one month's records, optionally for one property.
func (s *ReportService) MonthDetail(ctx context.Context, month finance.MonthKey, propertyID string, asOf time.Time) (finance.MonthDetail, error) {
	return build(ctx, s, "month_detail", func(snap finance.Snapshot) finance.MonthDetail {
		return s.policy.BuildMonthDetail(snap, month, propertyID, asOf)
	})
}

// MissingReport is the missing-payment list for a month.
type MissingReport struct {
	Month   finance.MonthKey       `json:"month"`
	Label   string                 `json:"label"`
	Entries []finance.MissingEntry `json:"entries"`
	Total   string                 `json:"total"`
}

// Missing lists active tenants without a payment in month.
func (s *ReportService) Missing(ctx context.Context, month finance.MonthKey) (MissingReport, error) {
	return build(ctx, s, "missing", func(snap finance.Snapshot) MissingReport {
		entries := finance.MissingPayments(month, snap.Tenants, snap.Payments, snap.Properties)
		return MissingReport{
			Month:   month,
			Label:   month.Label(),
			Entries: entries,
			Total:   finance.MissingTotal(entries).StringFixed(2),
		}
	})
}

// Payments lists payments newest first, each with its effective status
// and tenant/property labels.
func (s *ReportService) Payments(ctx context.Context, filter domain.PaymentFilter, asOf time.Time) ([]finance.PaymentLine, error) {
	return build(ctx, s, "payments", func(snap finance.Snapshot) []finance.PaymentLine {
		payments := make([]domain.Payment, 0, len(snap.Payments))
		for _, p := range snap.Payments {
			if filter.TenantID == "" || p.TenantID == filter.TenantID {
				payments = append(payments, p)
			}
		}
		finance.SortPaymentsDesc(payments)
		return s.policy.AnnotatePayments(finance.NewIndex(snap), payments, asOf)
	})
}

// Expenses lists expenses matching q, newest first.
func (s *ReportService) Expenses(ctx context.Context, q finance.ExpenseQuery, asOf time.Time) ([]finance.ExpenseLine, error) {
	return build(ctx, s, "expenses", func(snap finance.Snapshot) []finance.ExpenseLine {
		return finance.AnnotateExpenses(finance.NewIndex(snap), finance.FilterExpenses(snap.Expenses, q, asOf))
	})
}

// ExpenseStats summarises expenses matching q.
func (s *ReportService) ExpenseStats(ctx context.Context, q finance.ExpenseQuery, asOf time.Time) (finance.ExpenseStats, error) {
	return build(ctx, s, "expense_stats", func(snap finance.Snapshot) finance.ExpenseStats {
		filtered := finance.FilterExpenses(snap.Expenses, q, asOf)
		return finance.BuildExpenseStats(finance.NewIndex(snap), snap.Expenses, filtered, asOf)
	})
}
