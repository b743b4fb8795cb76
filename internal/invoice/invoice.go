package invoice

import (
	"time"

	"github.com/google/uuid"

	"finance/pkg/models"
)

// New validates in and builds an invoice record created at now.
func New(in Input, now time.Time) (models.Invoice, error) {
	totals, err := ComputeTotals(in)
	if err != nil {
		return models.Invoice{}, err
	}

	inv := build(in, totals)
	inv.ID = uuid.NewString()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	return inv, nil
}

// Edit re-runs every validation and returns existing with its fields replaced by in.
// Identity and creation time are kept; existing itself is not modified.
func Edit(existing models.Invoice, in Input, now time.Time) (models.Invoice, error) {
	totals, err := ComputeTotals(in)
	if err != nil {
		return models.Invoice{}, err
	}

	inv := build(in, totals)
	inv.ID = existing.ID
	inv.CreatedAt = existing.CreatedAt
	inv.UpdatedAt = now
	return inv, nil
}

func build(in Input, totals Totals) models.Invoice {
	var items []models.LineItem
	if len(in.LineItems) > 0 {
		items = make([]models.LineItem, len(in.LineItems))
		copy(items, in.LineItems)
	}

	var trays *int
	if in.TrayCount != nil {
		n := *in.TrayCount
		trays = &n
	}

	return models.Invoice{
		Category:                   in.Category,
		Direction:                  in.Direction,
		LineItems:                  items,
		Discount:                   in.Discount,
		AdditionalAmount:           in.AdditionalAmount,
		TrayCount:                  trays,
		PaymentState:               in.PaymentState,
		FirstPayment:               in.FirstPayment,
		GrossTotal:                 totals.GrossTotal,
		RemainingAfterFirstPayment: totals.RemainingAfterFirstPayment,
		CustomerID:                 in.CustomerID,
		EmployeeID:                 in.EmployeeID,
		Note:                       in.Note,
	}
}

// InputFrom rebuilds the editable input of a stored invoice, so an edit can start from it.
func InputFrom(inv models.Invoice) Input {
	in := Input{
		Category:         inv.Category,
		Direction:        inv.Direction,
		Discount:         inv.Discount,
		AdditionalAmount: inv.AdditionalAmount,
		PaymentState:     inv.PaymentState,
		FirstPayment:     inv.FirstPayment,
		CustomerID:       inv.CustomerID,
		EmployeeID:       inv.EmployeeID,
		Note:             inv.Note,
	}
	if len(inv.LineItems) > 0 {
		in.LineItems = make([]models.LineItem, len(inv.LineItems))
		copy(in.LineItems, inv.LineItems)
	}
	if inv.TrayCount != nil {
		n := *inv.TrayCount
		in.TrayCount = &n
	}
	if inv.Category != models.CategoryProducts {
		in.TotalAmount = inv.GrossTotal
	}
	return in
}
