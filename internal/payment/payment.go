// Package payment turns a created invoice into its ledger consequences.
//
// The payment state of an invoice is chosen once, at creation:
//
//	PAID      no debt; the whole gross total moves through the fund
//	UNPAID    a debt of the gross total; no cash moves
//	BREAKAGE  the first payment moves through the fund and the remainder becomes a debt
//
// After that the only state machine is the derived debt's, driven by ledger.ApplyPayment.
// An ADVANCE income invoice additionally opens an advance for its customer; an ADVANCE
// expense invoice gives part of one back and is posted with PostRepayment.
package payment

import (
	"fmt"
	"time"

	"finance/internal/finerr"
	"finance/internal/invoice"
	"finance/internal/ledger"
	"finance/internal/money"
	"finance/pkg/models"
)

// Posting is everything an invoice produces when it is posted.
// The caller commits the invoice, the optional entries and the fund movement in one transaction.
type Posting struct {
	InvoiceID string          `json:"invoice_id"`
	Debt      *models.Debt    `json:"debt,omitempty"`
	Advance   *models.Advance `json:"advance,omitempty"`

	// CashMovement is what enters (positive) or leaves (negative) the fund now.
	CashMovement money.Amount `json:"cash_movement"`
}

// Collected returns the part of the gross total settled at creation time.
func Collected(inv models.Invoice) money.Amount {
	switch inv.PaymentState {
	case models.Paid:
		return inv.GrossTotal
	case models.Breakage:
		return inv.FirstPayment
	}
	return 0
}

// Outstanding returns the part of the gross total left as a debt.
func Outstanding(inv models.Invoice) money.Amount {
	return inv.GrossTotal - Collected(inv)
}

// Post derives the ledger entries and fund movement of a freshly created invoice.
func Post(inv models.Invoice, now time.Time) (Posting, error) {
	if err := checkInvoice(inv); err != nil {
		return Posting{}, err
	}
	if inv.Category == models.CategoryAdvance && inv.Direction == models.Expense {
		return Posting{}, finerr.InvalidField("category", inv.Category, "advance repayments are posted against their advance")
	}

	p := Posting{
		InvoiceID:    inv.ID,
		CashMovement: signed(inv.Direction, Collected(inv)),
	}

	if owed := Outstanding(inv); owed > 0 {
		owner, ok := inv.Counterpart()
		if !ok {
			return Posting{}, &finerr.IntegrityError{Record: "invoice", ID: inv.ID, Details: "unpaid amount without a single counterpart"}
		}
		d, err := ledger.OpenDebt(owner, inv.Direction, inv.ID, owed, now)
		if err != nil {
			return Posting{}, err
		}
		p.Debt = &d
	}

	if inv.Category == models.CategoryAdvance {
		adv, err := ledger.ReceiveAdvance(inv.CustomerID, inv.ID, inv.GrossTotal, now)
		if err != nil {
			return Posting{}, err
		}
		p.Advance = &adv
	}
	return p, nil
}

// PostRepayment posts an ADVANCE expense invoice against the advance it repays.
func PostRepayment(inv models.Invoice, adv models.Advance, now time.Time) (Posting, error) {
	if err := checkInvoice(inv); err != nil {
		return Posting{}, err
	}
	if inv.Category != models.CategoryAdvance || inv.Direction != models.Expense {
		return Posting{}, finerr.InvalidField("category", inv.Category, "only ADVANCE expense invoices repay an advance")
	}
	if inv.CustomerID != adv.CustomerID {
		return Posting{}, finerr.InvalidField("customerId", inv.CustomerID, fmt.Sprintf("advance %s belongs to another customer", adv.ID))
	}

	repaid, err := ledger.RepayAdvance(adv, inv.GrossTotal, now)
	if err != nil {
		return Posting{}, err
	}
	return Posting{
		InvoiceID:    inv.ID,
		Advance:      &repaid,
		CashMovement: -inv.GrossTotal,
	}, nil
}

// ApplyToFund returns fund with the posting's cash movement applied.
// An outflow larger than the balance is rejected and fund is left as it was.
func ApplyToFund(fund models.Fund, p Posting) (models.Fund, error) {
	if fund.Balance < 0 {
		return models.Fund{}, &finerr.IntegrityError{Record: "fund", ID: fund.ID, Details: fmt.Sprintf("balance %d is negative", fund.Balance)}
	}
	next := fund.Balance + p.CashMovement
	if next < 0 {
		return models.Fund{}, fmt.Errorf("%w: fund %s holds %d, outflow is %d", finerr.ErrInsufficientBalance, fund.ID, fund.Balance, -p.CashMovement)
	}

	out := fund
	out.Balance = next
	return out, nil
}

// CollectDebtPayment applies a payment to d and moves the cash through fund.
// Receivables bring money in and payables take it out. Either both change or neither does.
func CollectDebtPayment(d models.Debt, fund models.Fund, amount money.Amount, at time.Time) (models.Debt, models.Fund, error) {
	paid, err := ledger.ApplyPayment(d, amount, at)
	if err != nil {
		return models.Debt{}, models.Fund{}, err
	}
	f, err := ApplyToFund(fund, Posting{CashMovement: signed(d.Direction, amount)})
	if err != nil {
		return models.Debt{}, models.Fund{}, err
	}
	return paid, f, nil
}

// checkInvoice re-derives the totals of a stored invoice and reports any drift as an
// integrity fault rather than a validation error.
func checkInvoice(inv models.Invoice) error {
	totals, err := invoice.ComputeTotals(invoice.InputFrom(inv))
	if err != nil {
		return &finerr.IntegrityError{Record: "invoice", ID: inv.ID, Details: err.Error()}
	}
	if totals.GrossTotal != inv.GrossTotal {
		return &finerr.IntegrityError{
			Record:  "invoice",
			ID:      inv.ID,
			Details: fmt.Sprintf("stored gross total %d, derived %d", inv.GrossTotal, totals.GrossTotal),
		}
	}
	return nil
}

func signed(dir models.Direction, a money.Amount) money.Amount {
	if dir == models.Expense {
		return -a
	}
	return a
}
