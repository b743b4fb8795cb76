// Package summary rolls the ledger entries of one customer or employee up into the figures shown
// on their detail view.
package summary

import (
	"math"
	"time"

	"finance/internal/ledger"
	"finance/internal/money"
	"finance/pkg/models"
)

// DefaultDueDays is how long a debt may stay open before it counts against reliability.
const DefaultDueDays = 30

// Options tune the aggregation.
type Options struct {
	// Location decides calendar-day boundaries. Nil means time.Local.
	Location *time.Location

	// DueDays is the payment term used by the reliability score. Zero means DefaultDueDays.
	DueDays int
}

// Summary is the read-side rollup for one owner. Debt figures cover receivables, i.e. debts
// the owner owes the business; PayableAmount covers the other direction.
type Summary struct {
	Owner models.Owner `json:"owner"`

	TotalDebt     money.Amount `json:"total_debt"`
	TotalPaid     money.Amount `json:"total_paid"`
	PendingAmount money.Amount `json:"pending_amount"`
	ActiveDebts   int          `json:"active_debts"`
	SettledDebts  int          `json:"settled_debts"`

	// PaymentRatio is TotalPaid / TotalDebt x 100, unrounded; 100 when nothing was owed.
	PaymentRatio float64 `json:"payment_ratio"`

	AveragePaidAfterDays float64 `json:"average_paid_after_days"`
	OldestPendingDays    int     `json:"oldest_pending_days"`

	// ReliabilityScore is the share of judged debts that were settled within the payment term.
	ReliabilityScore int `json:"reliability_score"`

	PayableAmount  money.Amount `json:"payable_amount"`
	AdvanceBalance money.Amount `json:"advance_balance"`
	TotalCredited  money.Amount `json:"total_credited"`
}

// Aggregate summarises the entries that belong to owner; entries of anyone else are skipped.
// A stored entry that breaks its invariants fails the whole summary with a data integrity fault.
func Aggregate(owner models.Owner, debts []models.Debt, advances []models.Advance, credits []models.EmployeeCredit, now time.Time, opts Options) (Summary, error) {
	due := opts.DueDays
	if due <= 0 {
		due = DefaultDueDays
	}

	s := Summary{Owner: owner}

	var (
		paidAfterTotal, timed int
		onTime, judged        int

		principals, paid, pending, payable []money.Amount
	)
	for _, d := range debts {
		if d.Owner != owner {
			continue
		}
		if err := ledger.Check(d); err != nil {
			return Summary{}, err
		}

		if d.Direction == models.Expense {
			if d.Status == models.DebtActive {
				payable = append(payable, d.Remaining)
			}
			continue
		}

		principals = append(principals, d.Principal)
		paid = append(paid, d.Paid())

		if days, ok := ledger.PendingSince(d, now, opts.Location); ok {
			s.ActiveDebts++
			pending = append(pending, d.Remaining)
			if days > s.OldestPendingDays {
				s.OldestPendingDays = days
			}
			if days > due {
				judged++
			}
			continue
		}

		s.SettledDebts++
		judged++
		if days, ok := ledger.PaidAfter(d, opts.Location); ok {
			paidAfterTotal += days
			timed++
			if days <= due {
				onTime++
			}
		}
	}

	var err error
	if s.TotalDebt, err = money.Sum(principals...); err != nil {
		return Summary{}, err
	}
	if s.TotalPaid, err = money.Sum(paid...); err != nil {
		return Summary{}, err
	}
	if s.PendingAmount, err = money.Sum(pending...); err != nil {
		return Summary{}, err
	}
	if s.PayableAmount, err = money.Sum(payable...); err != nil {
		return Summary{}, err
	}

	s.PaymentRatio = 100
	if s.TotalDebt > 0 {
		s.PaymentRatio = money.Percent(s.TotalPaid, s.TotalDebt)
	}
	if timed > 0 {
		s.AveragePaidAfterDays = float64(paidAfterTotal) / float64(timed)
	}
	s.ReliabilityScore = 100
	if judged > 0 {
		s.ReliabilityScore = int(math.Round(float64(onTime) * 100 / float64(judged)))
	}

	var balances, credited []money.Amount
	if owner.Kind == models.OwnerCustomer {
		for _, a := range advances {
			if a.CustomerID != owner.ID {
				continue
			}
			if err := ledger.CheckAdvance(a); err != nil {
				return Summary{}, err
			}
			if a.Status == models.AdvanceActive {
				balances = append(balances, a.Remaining)
			}
		}
	}

	if owner.Kind == models.OwnerEmployee {
		for _, c := range credits {
			if c.EmployeeID == owner.ID {
				credited = append(credited, c.Amount)
			}
		}
	}

	if s.AdvanceBalance, err = money.Sum(balances...); err != nil {
		return Summary{}, err
	}
	if s.TotalCredited, err = money.Sum(credited...); err != nil {
		return Summary{}, err
	}
	return s, nil
}
