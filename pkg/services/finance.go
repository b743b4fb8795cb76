package services

import (
	"time"

	"finance/internal/invoice"
	"finance/internal/money"
	"finance/internal/payment"
	"finance/internal/settlement"
	"finance/pkg/models"
)

// InvoiceCalculator derives and validates invoice totals
type InvoiceCalculator interface {
	// Create validates the input and returns a new invoice record
	Create(in invoice.Input) (models.Invoice, error)
}

// InvoicePoster turns invoices into ledger entries and fund movements
type InvoicePoster interface {
	// Post derives the debt or advance of a new invoice and applies its cash to the fund
	Post(inv models.Invoice, fund models.Fund) (payment.Posting, models.Fund, error)

	// CollectDebtPayment pays down a debt and moves the cash through the fund
	CollectDebtPayment(d models.Debt, fund models.Fund, amount money.Amount, at time.Time) (models.Debt, models.Fund, error)
}

// Ledger applies payments to debts and advances
type Ledger interface {
	PayDebt(d models.Debt, amount money.Amount, at time.Time) (models.Debt, error)
	ReceiveAdvance(customerID, invoiceID string, amount money.Amount) (models.Advance, error)
	RepayAdvance(a models.Advance, amount money.Amount, at time.Time) (models.Advance, error)
}

// SettlementDistributor pays workshop balances out to employees
type SettlementDistributor interface {
	// Settle validates the request and returns the settlement, updated workshop and employee credits
	Settle(req settlement.Request) (settlement.Result, error)
}
