package models

import (
	"time"

	"finance/internal/money"
)

// OwnerKind distinguishes customers from employees.
type OwnerKind string

const (
	OwnerCustomer OwnerKind = "customer"
	OwnerEmployee OwnerKind = "employee"
)

// Owner references the customer or employee a ledger entry belongs to.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

// DebtStatus is the lifecycle state of a debt. DebtPaid is terminal.
type DebtStatus string

const (
	DebtActive DebtStatus = "active"
	DebtPaid   DebtStatus = "paid"
)

// Payment is one amount applied against a ledger entry.
type Payment struct {
	Amount money.Amount `json:"amount"`
	PaidAt time.Time    `json:"paid_at"`
}

// Debt is an obligation between the business and a customer or an employee.
// Direction INCOME means the owner owes the business; EXPENSE means the business owes the owner.
type Debt struct {
	ID        string    `json:"id"`
	Owner     Owner     `json:"owner"`
	Direction Direction `json:"direction"`
	InvoiceID string    `json:"invoice_id,omitempty"`

	Principal money.Amount `json:"principal"`
	Remaining money.Amount `json:"remaining_amount"`
	Status    DebtStatus   `json:"status"`

	CreatedAt     time.Time  `json:"created_at"`
	LastPaymentAt *time.Time `json:"last_payment_at,omitempty"`
	Payments      []Payment  `json:"payments,omitempty"`
}

// Paid returns how much of the principal has been paid off.
func (d *Debt) Paid() money.Amount {
	return d.Principal - d.Remaining
}

// AdvanceStatus is the lifecycle state of an advance. AdvanceRepaid is terminal.
type AdvanceStatus string

const (
	AdvanceActive AdvanceStatus = "active"
	AdvanceRepaid AdvanceStatus = "repaid"
)

// Advance is prepaid credit received from a customer.
type Advance struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	InvoiceID  string `json:"invoice_id,omitempty"`

	Amount    money.Amount  `json:"amount"`
	Remaining money.Amount  `json:"remaining_amount"`
	Status    AdvanceStatus `json:"status"`

	CreatedAt       time.Time  `json:"created_at"`
	LastRepaymentAt *time.Time `json:"last_repayment_at,omitempty"`
	Repayments      []Payment  `json:"repayments,omitempty"`
}

// Fund is a cash balance that posted invoices move money in and out of.
type Fund struct {
	ID      string       `json:"id"`
	Balance money.Amount `json:"balance"`
}
