package models

import (
	"time"

	"github.com/shopspring/decimal"

	"finance/internal/money"
)

// Category is the kind of financial event an invoice records.
type Category string

const (
	CategoryProducts Category = "PRODUCTS" // goods sold or bought, priced by line items
	CategoryDirect   Category = "DIRECT"   // a single direct income or expense
	CategoryDebt     Category = "DEBT"     // money lent or borrowed
	CategoryAdvance  Category = "ADVANCE"  // prepaid credit received from or repaid to a customer
	CategoryEmployee Category = "EMPLOYEE" // payment to or from an employee
)

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryProducts, CategoryDirect, CategoryDebt, CategoryAdvance, CategoryEmployee:
		return true
	}
	return false
}

// Direction tells whether money comes in or goes out.
type Direction string

const (
	Income  Direction = "INCOME"
	Expense Direction = "EXPENSE"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == Income || d == Expense
}

// PaymentState is chosen once, when the invoice is created.
type PaymentState string

const (
	Paid     PaymentState = "PAID"
	Unpaid   PaymentState = "UNPAID"
	Breakage PaymentState = "BREAKAGE" // partial payment now, remainder becomes a debt
)

// IsValid reports whether s is a known payment state.
func (s PaymentState) IsValid() bool {
	switch s {
	case Paid, Unpaid, Breakage:
		return true
	}
	return false
}

// LineItem is one priced row of a PRODUCTS invoice.
type LineItem struct {
	ItemID           string          `json:"item_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        money.Amount    `json:"unit_price"`
	Unit             string          `json:"unit"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	ProductionRate   money.Amount    `json:"production_rate"`
}

// Invoice is one posted financial event. Amounts are minor currency units.
type Invoice struct {
	ID        string     `json:"id"`
	Category  Category   `json:"category"`
	Direction Direction  `json:"direction"`
	LineItems []LineItem `json:"line_items,omitempty"`

	Discount         money.Amount `json:"discount"`
	AdditionalAmount money.Amount `json:"additional_amount"`
	TrayCount        *int         `json:"tray_count,omitempty"`

	PaymentState PaymentState `json:"payment_state"`
	FirstPayment money.Amount `json:"first_payment"`

	// Derived by the calculator
	GrossTotal                 money.Amount  `json:"gross_total"`
	RemainingAfterFirstPayment *money.Amount `json:"remaining_after_first_payment,omitempty"`

	CustomerID string `json:"customer_id,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Note       string `json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Counterpart returns the owner a derived ledger entry would belong to.
func (inv *Invoice) Counterpart() (Owner, bool) {
	switch {
	case inv.CustomerID != "" && inv.EmployeeID == "":
		return Owner{Kind: OwnerCustomer, ID: inv.CustomerID}, true
	case inv.EmployeeID != "" && inv.CustomerID == "":
		return Owner{Kind: OwnerEmployee, ID: inv.EmployeeID}, true
	}
	return Owner{}, false
}
