package finance

import (
	"time"

	"github.com/waghrental/rentledger/internal/domain"
)

// DefaultGraceDays is how many days after the 1st a pending payment may
// stay pending before it is shown as late.
const DefaultGraceDays = 3

// StatusPolicy holds the late-payment rule.
type StatusPolicy struct {
	GraceDays int
}

// DefaultPolicy applies the standard three day grace period.
var DefaultPolicy = StatusPolicy{GraceDays: DefaultGraceDays}

// StatusView is the display-time status of a payment.
type StatusView struct {
	Status      domain.PaymentStatus `json:"status"`
	DaysOverdue int                  `json:"daysOverdue"`
}

// EffectiveStatus applies DefaultPolicy.
func EffectiveStatus(p domain.Payment, asOf time.Time) StatusView {
	return DefaultPolicy.EffectiveStatus(p, asOf)
}

// EffectiveStatus derives the display status of p as of asOf. Only a stored
// pending status can change; it becomes late once asOf's calendar date is
// past the grace period of the payment's month. Nothing is persisted.
func (sp StatusPolicy) EffectiveStatus(p domain.Payment, asOf time.Time) StatusView {
	if p.Status != domain.StatusPending {
		return StatusView{Status: p.Status}
	}
	if days := sp.DaysOverdue(p.Date, asOf); days > 0 {
		return StatusView{Status: domain.StatusLate, DaysOverdue: days}
	}
	return StatusView{Status: domain.StatusPending}
}

// DaysOverdue counts whole days between the end of the grace period for
// date's month and the calendar date of asOf in asOf's location.
func (sp StatusPolicy) DaysOverdue(date domain.Date, asOf time.Time) int {
	if date.IsZero() {
		return 0
	}
	grace := sp.GraceDays
	if grace < 0 {
		grace = 0
	}
	graceEnd := date.FirstOfMonth().AddDays(grace)
	today := domain.DateOf(asOf)
	if !today.After(graceEnd.Time) {
		return 0
	}
	return int(today.Sub(graceEnd.Time).Hours() / 24)
}
