package finance

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// BreakdownEntry is one named bucket of a breakdown.
type BreakdownEntry struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// Breakdown sums amounts per name, remembering the order in which names
// were first seen.
type Breakdown struct {
	entries []BreakdownEntry
	pos     map[string]int
}

// NewBreakdown returns an empty breakdown.
func NewBreakdown() *Breakdown {
	return &Breakdown{pos: make(map[string]int)}
}

// Add accumulates amount under name.
func (b *Breakdown) Add(name string, amount decimal.Decimal) {
	i, ok := b.pos[name]
	if !ok {
		i = len(b.entries)
		b.pos[name] = i
		b.entries = append(b.entries, BreakdownEntry{Name: name, Amount: decimal.Zero})
	}
	b.entries[i].Amount = b.entries[i].Amount.Add(amount)
	b.entries[i].Count++
}

// Entries returns the buckets in first-seen order.
func (b *Breakdown) Entries() []BreakdownEntry {
	out := make([]BreakdownEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Get returns the total for name.
func (b *Breakdown) Get(name string) (decimal.Decimal, bool) {
	i, ok := b.pos[name]
	if !ok {
		return decimal.Zero, false
	}
	return b.entries[i].Amount, true
}

// Len is the number of distinct names.
func (b *Breakdown) Len() int {
	return len(b.entries)
}

// Top returns the entry with the largest amount. Ties go to the entry seen
// first. ok is false for an empty breakdown.
func (b *Breakdown) Top() (top BreakdownEntry, ok bool) {
	for i, e := range b.entries {
		if i == 0 || e.Amount.GreaterThan(top.Amount) {
			top = e
			ok = true
		}
	}
	return top, ok
}

// MarshalJSON encodes the entries as an ordered array.
func (b *Breakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Entries())
}

// BreakdownBy groups records by the name key returns.
func BreakdownBy[R Record](records []R, key func(R) string) *Breakdown {
	b := NewBreakdown()
	for _, r := range records {
		b.Add(key(r), r.RecordAmount())
	}
	return b
}
