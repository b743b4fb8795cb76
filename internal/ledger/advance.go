package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"finance/internal/finerr"
	"finance/internal/money"
	"finance/pkg/models"
)

// ReceiveAdvance records prepaid credit received from a customer.
func ReceiveAdvance(customerID, invoiceID string, amount money.Amount, at time.Time) (models.Advance, error) {
	var errs finerr.ValidationErrors
	if customerID == "" {
		errs.Add(finerr.InvalidField("customerId", nil, "required"))
	}
	if amount <= 0 {
		errs.Add(finerr.InvalidAmount("amount", amount, "must be positive"))
	}
	if err := errs.Err(); err != nil {
		return models.Advance{}, err
	}

	return models.Advance{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		InvoiceID:  invoiceID,
		Amount:     amount,
		Remaining:  amount,
		Status:     models.AdvanceActive,
		CreatedAt:  at,
	}, nil
}

// RepayAdvance returns a with amount given back to the customer.
// Repaying more than what remains is rejected.
func RepayAdvance(a models.Advance, amount money.Amount, at time.Time) (models.Advance, error) {
	if err := CheckAdvance(a); err != nil {
		return models.Advance{}, err
	}
	if amount <= 0 {
		return models.Advance{}, finerr.InvalidAmount("amount", amount, "must be positive")
	}
	if a.Status == models.AdvanceRepaid {
		return models.Advance{}, &finerr.FieldError{
			Field:   "amount",
			Value:   amount,
			Message: fmt.Sprintf("advance %s is already repaid", a.ID),
			Err:     finerr.ErrAlreadySettled,
		}
	}
	if amount > a.Remaining {
		return models.Advance{}, &finerr.FieldError{
			Field:   "amount",
			Value:   amount,
			Message: fmt.Sprintf("exceeds the remaining advance %d", a.Remaining),
			Err:     finerr.ErrOverpayment,
		}
	}
	if at.Before(a.CreatedAt) {
		return models.Advance{}, finerr.InvalidField("repaidAt", at, "before the advance was received")
	}

	out := a
	out.Remaining = a.Remaining - amount
	out.Repayments = appendPayment(a.Repayments, models.Payment{Amount: amount, PaidAt: at})
	repaidAt := at
	out.LastRepaymentAt = &repaidAt
	if out.Remaining == 0 {
		out.Status = models.AdvanceRepaid
	}
	return out, nil
}

// CheckAdvance reports a data integrity fault when a breaks its own invariants.
func CheckAdvance(a models.Advance) error {
	fault := func(details string) error {
		return &finerr.IntegrityError{Record: "advance", ID: a.ID, Details: details}
	}

	switch {
	case a.Amount <= 0:
		return fault(fmt.Sprintf("amount %d is not positive", a.Amount))
	case a.Remaining < 0:
		return fault(fmt.Sprintf("remaining amount %d is negative", a.Remaining))
	case a.Remaining > a.Amount:
		return fault(fmt.Sprintf("remaining amount %d exceeds amount %d", a.Remaining, a.Amount))
	}

	switch a.Status {
	case models.AdvanceActive:
		if a.Remaining == 0 {
			return fault("active advance has nothing remaining")
		}
	case models.AdvanceRepaid:
		if a.Remaining != 0 {
			return fault(fmt.Sprintf("repaid advance still has %d remaining", a.Remaining))
		}
	default:
		return fault(fmt.Sprintf("unknown status %q", a.Status))
	}
	return nil
}
