package finance

import "github.com/waghrental/rentledger/internal/domain"

// Labels used when a record points at something no longer in the snapshot.
const (
	UnknownTenant   = "Unknown tenant"
	UnknownProperty = "Unknown property"
)

// Snapshot is the full record set a view is computed from. All four
// collections must be loaded together.
type Snapshot struct {
	Properties []domain.Property `json:"properties"`
	Tenants    []domain.Tenant   `json:"tenants"`
	Payments   []domain.Payment  `json:"payments"`
	Expenses   []domain.Expense  `json:"expenses"`
}

// ActiveTenants returns the tenants that are not archived.
func (s Snapshot) ActiveTenants() []domain.Tenant {
	return activeTenants(s.Tenants)
}

func activeTenants(tenants []domain.Tenant) []domain.Tenant {
	out := make([]domain.Tenant, 0, len(tenants))
	for _, t := range tenants {
		if t.IsActive() {
			out = append(out, t)
		}
	}
	return out
}

// Index resolves ids to records in O(1). Build it once per snapshot.
type Index struct {
	properties map[string]*domain.Property
	tenants    map[string]*domain.Tenant
}

// NewIndex indexes the properties and tenants of s.
func NewIndex(s Snapshot) *Index {
	return newIndex(s.Properties, s.Tenants)
}

func newIndex(properties []domain.Property, tenants []domain.Tenant) *Index {
	ix := &Index{
		properties: make(map[string]*domain.Property, len(properties)),
		tenants:    make(map[string]*domain.Tenant, len(tenants)),
	}
	for i := range properties {
		ix.properties[properties[i].ID] = &properties[i]
	}
	for i := range tenants {
		ix.tenants[tenants[i].ID] = &tenants[i]
	}
	return ix
}

// Tenant looks up a tenant by id.
func (ix *Index) Tenant(id string) (*domain.Tenant, bool) {
	t, ok := ix.tenants[id]
	return t, ok
}

// Property looks up a property by id.
func (ix *Index) Property(id string) (*domain.Property, bool) {
	p, ok := ix.properties[id]
	return p, ok
}

// PropertyOfTenant follows the tenant → property reference.
func (ix *Index) PropertyOfTenant(tenantID string) (*domain.Property, bool) {
	t, ok := ix.tenants[tenantID]
	if !ok {
		return nil, false
	}
	return ix.Property(t.PropertyID)
}

// TenantName returns the tenant's name or UnknownTenant.
func (ix *Index) TenantName(id string) string {
	if t, ok := ix.tenants[id]; ok {
		return t.Name
	}
	return UnknownTenant
}

// PropertyName returns the property's name or UnknownProperty.
func (ix *Index) PropertyName(id string) string {
	if p, ok := ix.properties[id]; ok {
		return p.Name
	}
	return UnknownProperty
}
