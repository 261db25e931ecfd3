// Package memory is a process-local record store. It enforces the same
// foreign keys as the SQL schema and is used for demos and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/waghrental/rentledger/internal/domain"
	"github.com/waghrental/rentledger/internal/finance"
)

// Store holds every record behind one mutex.
type Store struct {
	mu         sync.Mutex
	properties map[string]domain.Property
	tenants    map[string]domain.Tenant
	payments   map[string]domain.Payment
	expenses   map[string]domain.Expense
	loads      int
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		properties: map[string]domain.Property{},
		tenants:    map[string]domain.Tenant{},
		payments:   map[string]domain.Payment{},
		expenses:   map[string]domain.Expense{},
		now:        time.Now,
	}
}

func (s *Store) Properties() domain.PropertyRepository { return propertyRepo{s} }
func (s *Store) Tenants() domain.TenantRepository     { return tenantRepo{s} }
func (s *Store) Payments() domain.PaymentRepository   { return paymentRepo{s} }
func (s *Store) Expenses() domain.ExpenseRepository   { return expenseRepo{s} }

// Loads returns how many snapshots have been taken.
func (s *Store) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// Load copies every record into a snapshot, ordered like the SQL loader.
func (s *Store) Load(context.Context) (finance.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++

	snap := finance.Snapshot{
		Properties: make([]domain.Property, 0, len(s.properties)),
		Tenants:    make([]domain.Tenant, 0, len(s.tenants)),
		Payments:   make([]domain.Payment, 0, len(s.payments)),
		Expenses:   make([]domain.Expense, 0, len(s.expenses)),
	}
	for _, p := range s.properties {
		snap.Properties = append(snap.Properties, p)
	}
	for _, t := range s.tenants {
		snap.Tenants = append(snap.Tenants, t)
	}
	for _, p := range s.payments {
		snap.Payments = append(snap.Payments, p)
	}
	for _, e := range s.expenses {
		snap.Expenses = append(snap.Expenses, e)
	}
	sort.Slice(snap.Properties, func(i, j int) bool { return snap.Properties[i].Name < snap.Properties[j].Name })
	sort.Slice(snap.Tenants, func(i, j int) bool { return snap.Tenants[i].Name < snap.Tenants[j].Name })
	sort.Slice(snap.Payments, func(i, j int) bool { return newer(snap.Payments[i].Date, snap.Payments[i].ID, snap.Payments[j].Date, snap.Payments[j].ID) })
	sort.Slice(snap.Expenses, func(i, j int) bool { return newer(snap.Expenses[i].Date, snap.Expenses[i].ID, snap.Expenses[j].Date, snap.Expenses[j].ID) })
	return snap, nil
}

func newer(a domain.Date, aID string, b domain.Date, bID string) bool {
	if !a.Equal(b.Time) {
		return a.After(b.Time)
	}
	return aID < bID
}

func (s *Store) stamp(created, updated *time.Time) {
	now := s.now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

type propertyRepo struct{ s *Store }

func (r propertyRepo) Create(_ context.Context, p *domain.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = uuid.NewString()
	r.s.stamp(&p.CreatedAt, &p.UpdatedAt)
	r.s.properties[p.ID] = *p
	return nil
}

func (r propertyRepo) GetByID(_ context.Context, id string) (*domain.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.properties[id]
	if !ok {
		return nil, fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r propertyRepo) Update(_ context.Context, p *domain.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.properties[p.ID]
	if !ok {
		return fmt.Errorf("property %s: %w", p.ID, domain.ErrNotFound)
	}
	p.CreatedAt = old.CreatedAt
	r.s.stamp(&p.CreatedAt, &p.UpdatedAt)
	r.s.properties[p.ID] = *p
	return nil
}

func (r propertyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[id]; !ok {
		return fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
	}
	for _, t := range r.s.tenants {
		if t.PropertyID == id {
			return fmt.Errorf("property %s: %w", id, domain.ErrInUse)
		}
	}
	for _, e := range r.s.expenses {
		if e.PropertyID == id {
			return fmt.Errorf("property %s: %w", id, domain.ErrInUse)
		}
	}
	delete(r.s.properties, id)
	return nil
}

func (r propertyRepo) List(context.Context) ([]domain.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Property, 0, len(r.s.properties))
	for _, p := range r.s.properties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type tenantRepo struct{ s *Store }

func (r tenantRepo) Create(_ context.Context, t *domain.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[t.PropertyID]; !ok {
		return fmt.Errorf("tenant property %s: %w", t.PropertyID, domain.ErrUnknownReference)
	}
	t.ID = uuid.NewString()
	r.s.stamp(&t.CreatedAt, &t.UpdatedAt)
	r.s.tenants[t.ID] = *t
	return nil
}

func (r tenantRepo) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tenants[id]
	if !ok {
		return nil, fmt.Errorf("tenant %s: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

// Update leaves the archived flag as stored.
func (r tenantRepo) Update(_ context.Context, t *domain.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.tenants[t.ID]
	if !ok {
		return fmt.Errorf("tenant %s: %w", t.ID, domain.ErrNotFound)
	}
	if _, ok := r.s.properties[t.PropertyID]; !ok {
		return fmt.Errorf("tenant property %s: %w", t.PropertyID, domain.ErrUnknownReference)
	}
	t.IsArchived = old.IsArchived
	t.CreatedAt = old.CreatedAt
	r.s.stamp(&t.CreatedAt, &t.UpdatedAt)
	r.s.tenants[t.ID] = *t
	return nil
}

func (r tenantRepo) SetArchived(_ context.Context, id string, archived bool) (*domain.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tenants[id]
	if !ok {
		return nil, fmt.Errorf("tenant %s: %w", id, domain.ErrNotFound)
	}
	t.IsArchived = archived
	r.s.stamp(&t.CreatedAt, &t.UpdatedAt)
	r.s.tenants[id] = t
	return &t, nil
}

func (r tenantRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tenants[id]; !ok {
		return fmt.Errorf("tenant %s: %w", id, domain.ErrNotFound)
	}
	for _, p := range r.s.payments {
		if p.TenantID == id {
			return fmt.Errorf("tenant %s: %w", id, domain.ErrInUse)
		}
	}
	delete(r.s.tenants, id)
	return nil
}

func (r tenantRepo) List(_ context.Context, f domain.TenantFilter) ([]domain.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Tenant, 0)
	for _, t := range r.s.tenants {
		if t.IsArchived && !f.IncludeArchived {
			continue
		}
		if f.PropertyID != "" && t.PropertyID != f.PropertyID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(_ context.Context, p *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tenants[p.TenantID]; !ok {
		return fmt.Errorf("payment tenant %s: %w", p.TenantID, domain.ErrUnknownReference)
	}
	p.ID = uuid.NewString()
	r.s.stamp(&p.CreatedAt, &p.UpdatedAt)
	r.s.payments[p.ID] = *p
	return nil
}

func (r paymentRepo) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r paymentRepo) Update(_ context.Context, p *domain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.payments[p.ID]
	if !ok {
		return fmt.Errorf("payment %s: %w", p.ID, domain.ErrNotFound)
	}
	if _, ok := r.s.tenants[p.TenantID]; !ok {
		return fmt.Errorf("payment tenant %s: %w", p.TenantID, domain.ErrUnknownReference)
	}
	p.CreatedAt = old.CreatedAt
	r.s.stamp(&p.CreatedAt, &p.UpdatedAt)
	r.s.payments[p.ID] = *p
	return nil
}

func (r paymentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[id]; !ok {
		return fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.payments, id)
	return nil
}

func (r paymentRepo) List(_ context.Context, f domain.PaymentFilter) ([]domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Payment, 0)
	for _, p := range r.s.payments {
		if f.TenantID == "" || p.TenantID == f.TenantID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].Date, out[i].ID, out[j].Date, out[j].ID) })
	return out, nil
}

type expenseRepo struct{ s *Store }

func (r expenseRepo) Create(_ context.Context, e *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[e.PropertyID]; !ok {
		return fmt.Errorf("expense property %s: %w", e.PropertyID, domain.ErrUnknownReference)
	}
	e.ID = uuid.NewString()
	r.s.stamp(&e.CreatedAt, &e.UpdatedAt)
	r.s.expenses[e.ID] = *e
	return nil
}

func (r expenseRepo) GetByID(_ context.Context, id string) (*domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
	}
	return &e, nil
}

func (r expenseRepo) Update(_ context.Context, e *domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.expenses[e.ID]
	if !ok {
		return fmt.Errorf("expense %s: %w", e.ID, domain.ErrNotFound)
	}
	if _, ok := r.s.properties[e.PropertyID]; !ok {
		return fmt.Errorf("expense property %s: %w", e.PropertyID, domain.ErrUnknownReference)
	}
	e.CreatedAt = old.CreatedAt
	r.s.stamp(&e.CreatedAt, &e.UpdatedAt)
	r.s.expenses[e.ID] = *e
	return nil
}

func (r expenseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[id]; !ok {
		return fmt.Errorf("expense %s: %w", id, domain.ErrNotFound)
	}
	delete(r.s.expenses, id)
	return nil
}

func (r expenseRepo) List(_ context.Context, f domain.ExpenseFilter) ([]domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Expense, 0)
	for _, e := range r.s.expenses {
		if f.PropertyID == "" || e.PropertyID == f.PropertyID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].Date, out[i].ID, out[j].Date, out[j].ID) })
	return out, nil
}
