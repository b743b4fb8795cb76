package ledger

import (
	"math"
	"time"

	"finance/internal/money"
	"finance/pkg/models"
)

// PaymentProgress returns the paid share of principal as a percentage, unrounded.
// A non-positive principal yields 0.
func PaymentProgress(principal, remaining money.Amount) float64 {
	if principal <= 0 {
		return 0
	}
	return money.Percent(principal-remaining, principal)
}

// DisplayProgress clamps p to [0, 100] and rounds it for display.
// Comparisons must use the unrounded value.
func DisplayProgress(p float64) int {
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p >= 100:
		return 100
	}
	return int(math.Round(p))
}

// CalendarDays counts the calendar days between the dates of from and to as seen in loc.
// Times on the same local date are 0 days apart regardless of the hours between them.
func CalendarDays(from, to time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	f, t := from.In(loc), to.In(loc)
	fd := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	td := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(td.Sub(fd).Hours() / 24)
}

// PendingSince returns how many calendar days an active debt has been open at now.
// ok is false for settled debts.
func PendingSince(d models.Debt, now time.Time, loc *time.Location) (days int, ok bool) {
	if d.Status != models.DebtActive {
		return 0, false
	}
	return CalendarDays(d.CreatedAt, now, loc), true
}

// PaidAfter returns how many calendar days it took to settle d.
// ok is false while the debt is active or when no payment date was recorded.
func PaidAfter(d models.Debt, loc *time.Location) (days int, ok bool) {
	if d.Status != models.DebtPaid || d.LastPaymentAt == nil {
		return 0, false
	}
	return CalendarDays(d.CreatedAt, *d.LastPaymentAt, loc), true
}
