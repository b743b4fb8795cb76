// Package invoice derives the monetary fields of an invoice from its raw entry fields.
//
// The package has two layers:
//   - ParseForm is the single boundary where form strings become typed, validated values.
//     Nothing downstream ever sees an unparsed string.
//   - ComputeTotals is a pure function over the typed Input. It never mutates its argument
//     and returns every violated rule at once as a *finerr.ValidationErrors, so a form can
//     mark each offending field.
//
// Rules per category:
//   - PRODUCTS: grossTotal = sum(quantity x unitPrice) - discount + additionalAmount, with at
//     least one line item. A negative result is rejected.
//   - DIRECT, DEBT, ADVANCE, EMPLOYEE: grossTotal is the entered totalAmount. Line items,
//     discount, additionalAmount and trayCount are forbidden, not ignored.
//   - BREAKAGE payment state: 0 < firstPayment < grossTotal, and the remainder is reported.
package invoice

import (
	"time"

	"github.com/rs/zerolog"

	"finance/internal/logger"
	"finance/internal/money"
	"finance/pkg/models"
)

// Input is a fully typed invoice entry, as produced by ParseForm.
type Input struct {
	Category  models.Category
	Direction models.Direction
	LineItems []models.LineItem

	Discount         money.Amount
	AdditionalAmount money.Amount
	TotalAmount      money.Amount // only for non-PRODUCTS categories
	TrayCount        *int

	PaymentState models.PaymentState
	FirstPayment money.Amount

	CustomerID string
	EmployeeID string
	Note       string
}

// Totals holds the derived amounts of an invoice.
type Totals struct {
	GrossTotal money.Amount

	// RemainingAfterFirstPayment is set only for BREAKAGE invoices.
	RemainingAfterFirstPayment *money.Amount
}

// Calculator wraps the pure functions of this package with logging and a clock.
type Calculator struct {
	log zerolog.Logger
	now func() time.Time
}

// NewCalculator creates a calculator using the wall clock.
func NewCalculator() *Calculator {
	return &Calculator{
		log: logger.WithComponent("invoice-calculator"),
		now: time.Now,
	}
}

// Create validates in and returns a new invoice record.
func (c *Calculator) Create(in Input) (models.Invoice, error) {
	inv, err := New(in, c.now())
	if err != nil {
		c.log.Warn().Err(err).Msg("Invoice creation rejected")
		return models.Invoice{}, err
	}

	c.log.Info().
		Str("invoice_id", inv.ID).
		Str("category", string(inv.Category)).
		Str("payment_state", string(inv.PaymentState)).
		Int64("gross_total", int64(inv.GrossTotal)).
		Msg("Invoice created")
	return inv, nil
}
