package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/waghrental/rentledger/internal/domain"
	"github.com/waghrental/rentledger/internal/observability/metrics"
	"github.com/waghrental/rentledger/internal/security/audit"
)

// ReportCache stores derived report inputs. Implementations degrade to a
// miss on failure; they never fail the caller. Entries are scoped to a
// generation: Invalidate advances it, and values set under an older one
// are never returned.
type ReportCache interface {
	Generation(ctx context.Context) (gen int64, ok bool)
	Get(ctx context.Context, gen int64, key string, dst any) bool
	Set(ctx context.Context, gen int64, key string, value any, ttl time.Duration)
	Invalidate(ctx context.Context)
	Ping(ctx context.Context) error
}

// Repositories bundles the record store.
type Repositories struct {
	Properties domain.PropertyRepository
	Tenants    domain.TenantRepository
	Payments   domain.PaymentRepository
	Expenses   domain.ExpenseRepository
}

// LedgerService validates and persists properties, tenants, payments and
// expenses. Every successful write invalidates the report cache.
type LedgerService struct {
	repos  Repositories
	cache  ReportCache
	audit  *audit.Logger
	logger *slog.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(repos Repositories, cache ReportCache, auditLog *audit.Logger, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	if auditLog == nil {
		auditLog = audit.NewLogger(logger)
	}
	return &LedgerService{repos: repos, cache: cache, audit: auditLog, logger: logger}
}

// PropertyDetail is a property together with the records that belong to it.
type PropertyDetail struct {
	domain.Property
	Tenants  []domain.Tenant  `json:"tenants"`
	Expenses []domain.Expense `json:"expenses"`
}

func (s *LedgerService) written(ctx context.Context, entity, op, id string, err error) {
	metrics.ObserveWrite(entity, op, err)
	s.audit.LogAction(ctx, op, entity, id, err)
	if err == nil && s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// ListProperties returns every property
func (s *LedgerService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.repos.Properties.List(ctx)
}

// GetProperty loads a property with all its tenants (archived included)
// and its expenses.
func (s *LedgerService) GetProperty(ctx context.Context, id string) (*PropertyDetail, error) {
	var (
		prop     *domain.Property
		tenants  []domain.Tenant
		expenses []domain.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prop, err = s.repos.Properties.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		tenants, err = s.repos.Tenants.List(gctx, domain.TenantFilter{PropertyID: id, IncludeArchived: true})
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.repos.Expenses.List(gctx, domain.ExpenseFilter{PropertyID: id})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &PropertyDetail{Property: *prop, Tenants: tenants, Expenses: expenses}, nil
}

// CreateProperty validates and stores a property
func (s *LedgerService) CreateProperty(ctx context.Context, p *domain.Property) error {
	trimProperty(p)
	if err := p.Validate(); err != nil {
		return err
	}
	err := s.repos.Properties.Create(ctx, p)
	s.written(ctx, "property", "create", p.ID, err)
	return err
}

// UpdateProperty replaces the editable fields of property id
func (s *LedgerService) UpdateProperty(ctx context.Context, id string, p *domain.Property) error {
	p.ID = id
	trimProperty(p)
	if err := p.Validate(); err != nil {
		return err
	}
	err := s.repos.Properties.Update(ctx, p)
	s.written(ctx, "property", "update", id, err)
	return err
}

// DeleteProperty removes a property that nothing references any more
func (s *LedgerService) DeleteProperty(ctx context.Context, id string) error {
	err := s.repos.Properties.Delete(ctx, id)
	s.written(ctx, "property", "delete", id, err)
	return err
}

func trimProperty(p *domain.Property) {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	p.Type = strings.TrimSpace(p.Type)
}

// ListTenants returns tenants matching filter
func (s *LedgerService) ListTenants(ctx context.Context, filter domain.TenantFilter) ([]domain.Tenant, error) {
	return s.repos.Tenants.List(ctx, filter)
}

// GetTenant returns one tenant
func (s *LedgerService) GetTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	return s.repos.Tenants.GetByID(ctx, id)
}

// CreateTenant validates and stores a tenant. New tenants start active.
func (s *LedgerService) CreateTenant(ctx context.Context, t *domain.Tenant) error {
	trimTenant(t)
	t.IsArchived = false
	if err := t.Validate(); err != nil {
		return err
	}
	err := s.repos.Tenants.Create(ctx, t)
	s.written(ctx, "tenant", "create", t.ID, err)
	return err
}

// UpdateTenant replaces the editable fields of tenant id. The archived flag
// is left as stored.
func (s *LedgerService) UpdateTenant(ctx context.Context, id string, t *domain.Tenant) error {
	t.ID = id
	trimTenant(t)
	if err := t.Validate(); err != nil {
		return err
	}
	err := s.repos.Tenants.Update(ctx, t)
	s.written(ctx, "tenant", "update", id, err)
	return err
}

// ArchiveTenant marks a tenant archived. History stays visible.
func (s *LedgerService) ArchiveTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	t, err := s.repos.Tenants.SetArchived(ctx, id, true)
	s.written(ctx, "tenant", "archive", id, err)
	return t, err
}

// UnarchiveTenant makes an archived tenant active again
func (s *LedgerService) UnarchiveTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	t, err := s.repos.Tenants.SetArchived(ctx, id, false)
	s.written(ctx, "tenant", "unarchive", id, err)
	return t, err
}

// DeleteTenant removes a tenant
func (s *LedgerService) DeleteTenant(ctx context.Context, id string) error {
	err := s.repos.Tenants.Delete(ctx, id)
	s.written(ctx, "tenant", "delete", id, err)
	return err
}

func trimTenant(t *domain.Tenant) {
	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.TrimSpace(t.Email)
	t.Phone = strings.TrimSpace(t.Phone)
	t.PropertyID = strings.TrimSpace(t.PropertyID)
	t.RentAmount = t.RentAmount.Round(2)
}

// GetPayment returns one payment
func (s *LedgerService) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return s.repos.Payments.GetByID(ctx, id)
}

// CreatePayment applies defaults, validates and stores a payment
func (s *LedgerService) CreatePayment(ctx context.Context, p *domain.Payment) error {
	p.TenantID = strings.TrimSpace(p.TenantID)
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return err
	}
	err := s.repos.Payments.Create(ctx, p)
	s.written(ctx, "payment", "create", p.ID, err)
	return err
}

// UpdatePayment replaces payment id. Stored status only changes here; a
// pending payment shown as late is never rewritten automatically.
func (s *LedgerService) UpdatePayment(ctx context.Context, id string, p *domain.Payment) error {
	p.ID = id
	p.TenantID = strings.TrimSpace(p.TenantID)
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return err
	}
	err := s.repos.Payments.Update(ctx, p)
	s.written(ctx, "payment", "update", id, err)
	return err
}

// DeletePayment removes a payment
func (s *LedgerService) DeletePayment(ctx context.Context, id string) error {
	err := s.repos.Payments.Delete(ctx, id)
	s.written(ctx, "payment", "delete", id, err)
	return err
}

// GetExpense returns one expense
func (s *LedgerService) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return s.repos.Expenses.GetByID(ctx, id)
}

// CreateExpense validates and stores an expense
func (s *LedgerService) CreateExpense(ctx context.Context, e *domain.Expense) error {
	trimExpense(e)
	if err := e.Validate(); err != nil {
		return err
	}
	err := s.repos.Expenses.Create(ctx, e)
	s.written(ctx, "expense", "create", e.ID, err)
	return err
}

// UpdateExpense replaces expense id
func (s *LedgerService) UpdateExpense(ctx context.Context, id string, e *domain.Expense) error {
	e.ID = id
	trimExpense(e)
	if err := e.Validate(); err != nil {
		return err
	}
	err := s.repos.Expenses.Update(ctx, e)
	s.written(ctx, "expense", "update", id, err)
	return err
}

// DeleteExpense removes an expense
func (s *LedgerService) DeleteExpense(ctx context.Context, id string) error {
	err := s.repos.Expenses.Delete(ctx, id)
	s.written(ctx, "expense", "delete", id, err)
	return err
}

func trimExpense(e *domain.Expense) {
	e.PropertyID = strings.TrimSpace(e.PropertyID)
	e.Description = strings.TrimSpace(e.Description)
	e.Amount = e.Amount.Round(2)
}
