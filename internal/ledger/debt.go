// Package ledger tracks debts and advances as they are paid down.
//
// Entries are values: every operation takes the current entry and returns an updated copy,
// leaving its argument untouched. On any error nothing is returned but the error, so the
// caller never has a half-applied entry to commit. Each operation first checks that the stored
// entry is internally consistent and reports violations as finerr.ErrDataIntegrity, separate
// from the validation errors caused by the requested change.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"finance/internal/finerr"
	"finance/internal/money"
	"finance/pkg/models"
)

// OpenDebt creates an active debt whose remaining amount equals principal.
func OpenDebt(owner models.Owner, direction models.Direction, invoiceID string, principal money.Amount, at time.Time) (models.Debt, error) {
	var errs finerr.ValidationErrors
	if owner.ID == "" || (owner.Kind != models.OwnerCustomer && owner.Kind != models.OwnerEmployee) {
		errs.Add(finerr.InvalidField("owner", owner, "a debt is owned by exactly one customer or employee"))
	}
	if !direction.IsValid() {
		errs.Add(finerr.InvalidField("direction", direction, "unknown direction"))
	}
	if principal <= 0 {
		errs.Add(finerr.InvalidAmount("principal", principal, "must be positive"))
	}
	if err := errs.Err(); err != nil {
		return models.Debt{}, err
	}

	return models.Debt{
		ID:        uuid.NewString(),
		Owner:     owner,
		Direction: direction,
		InvoiceID: invoiceID,
		Principal: principal,
		Remaining: principal,
		Status:    models.DebtActive,
		CreatedAt: at,
	}, nil
}

// ApplyPayment returns d with amount paid off. Reaching zero settles the debt for good.
// A payment larger than the remaining amount is rejected, never clamped.
func ApplyPayment(d models.Debt, amount money.Amount, at time.Time) (models.Debt, error) {
	if err := Check(d); err != nil {
		return models.Debt{}, err
	}
	if amount <= 0 {
		return models.Debt{}, finerr.InvalidAmount("amount", amount, "must be positive")
	}
	if d.Status == models.DebtPaid {
		return models.Debt{}, &finerr.FieldError{
			Field:   "amount",
			Value:   amount,
			Message: fmt.Sprintf("debt %s is already paid", d.ID),
			Err:     finerr.ErrAlreadySettled,
		}
	}
	if amount > d.Remaining {
		return models.Debt{}, &finerr.FieldError{
			Field:   "amount",
			Value:   amount,
			Message: fmt.Sprintf("exceeds the remaining amount %d", d.Remaining),
			Err:     finerr.ErrOverpayment,
		}
	}
	if at.Before(d.CreatedAt) {
		return models.Debt{}, finerr.InvalidField("paidAt", at, "before the debt was created")
	}

	out := d
	out.Remaining = d.Remaining - amount
	out.Payments = appendPayment(d.Payments, models.Payment{Amount: amount, PaidAt: at})
	paidAt := at
	out.LastPaymentAt = &paidAt
	if out.Remaining == 0 {
		out.Status = models.DebtPaid
	}
	return out, nil
}

// Check reports a data integrity fault when d breaks its own invariants.
func Check(d models.Debt) error {
	fault := func(details string) error {
		return &finerr.IntegrityError{Record: "debt", ID: d.ID, Details: details}
	}

	switch {
	case d.Principal <= 0:
		return fault(fmt.Sprintf("principal %d is not positive", d.Principal))
	case d.Remaining < 0:
		return fault(fmt.Sprintf("remaining amount %d is negative", d.Remaining))
	case d.Remaining > d.Principal:
		return fault(fmt.Sprintf("remaining amount %d exceeds principal %d", d.Remaining, d.Principal))
	}

	switch d.Status {
	case models.DebtActive:
		if d.Remaining == 0 {
			return fault("active debt has nothing remaining")
		}
	case models.DebtPaid:
		if d.Remaining != 0 {
			return fault(fmt.Sprintf("paid debt still has %d remaining", d.Remaining))
		}
	default:
		return fault(fmt.Sprintf("unknown status %q", d.Status))
	}
	return nil
}

func appendPayment(history []models.Payment, p models.Payment) []models.Payment {
	out := make([]models.Payment, len(history), len(history)+1)
	copy(out, history)
	return append(out, p)
}
