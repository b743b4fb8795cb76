package payment_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/finerr"
	"finance/internal/invoice"
	"finance/internal/money"
	"finance/internal/payment"
	"finance/pkg/models"
)

var now = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

func productsInvoice(t *testing.T, state models.PaymentState, first money.Amount) models.Invoice {
	t.Helper()
	line := func(id string, qty int64, price money.Amount) models.LineItem {
		return models.LineItem{ItemID: id, Quantity: decimal.NewFromInt(qty), UnitPrice: price, ConversionFactor: decimal.NewFromInt(1)}
	}
	inv, err := invoice.New(invoice.Input{
		Category:         models.CategoryProducts,
		Direction:        models.Income,
		LineItems:        []models.LineItem{line("bread", 3, 10000), line("cake", 1, 5000)},
		Discount:         2000,
		AdditionalAmount: 1000,
		PaymentState:     state,
		FirstPayment:     first,
		CustomerID:       "cust-1",
	}, now)
	require.NoError(t, err)
	return inv
}

func directInvoice(t *testing.T, cat models.Category, dir models.Direction, state models.PaymentState, total money.Amount) models.Invoice {
	t.Helper()
	inv, err := invoice.New(invoice.Input{
		Category:     cat,
		Direction:    dir,
		TotalAmount:  total,
		PaymentState: state,
		CustomerID:   "cust-1",
	}, now)
	require.NoError(t, err)
	return inv
}

func TestPost_Paid(t *testing.T) {
	p, err := payment.Post(productsInvoice(t, models.Paid, 0), now)
	require.NoError(t, err)
	assert.Nil(t, p.Debt)
	assert.Nil(t, p.Advance)
	assert.Equal(t, money.Amount(33000), p.CashMovement)
}

func TestPost_Unpaid(t *testing.T) {
	inv := productsInvoice(t, models.Unpaid, 0)
	p, err := payment.Post(inv, now)
	require.NoError(t, err)
	require.NotNil(t, p.Debt)
	assert.Equal(t, money.Amount(33000), p.Debt.Remaining)
	assert.Equal(t, models.DebtActive, p.Debt.Status)
	assert.Equal(t, models.Owner{Kind: models.OwnerCustomer, ID: "cust-1"}, p.Debt.Owner)
	assert.Equal(t, inv.ID, p.Debt.InvoiceID)
	assert.Equal(t, models.Income, p.Debt.Direction)
	assert.Zero(t, p.CashMovement)
}

func TestPost_Breakage(t *testing.T) {
	p, err := payment.Post(productsInvoice(t, models.Breakage, 10000), now)
	require.NoError(t, err)
	require.NotNil(t, p.Debt)
	assert.Equal(t, money.Amount(23000), p.Debt.Remaining)
	assert.Equal(t, money.Amount(23000), p.Debt.Principal)
	assert.Equal(t, models.DebtActive, p.Debt.Status)
	assert.Equal(t, money.Amount(10000), p.CashMovement)
}

func TestPost_ExpenseMovesCashOut(t *testing.T) {
	p, err := payment.Post(directInvoice(t, models.CategoryDirect, models.Expense, models.Paid, 4500), now)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(-4500), p.CashMovement)
}

func TestPost_AdvanceAndRepayment(t *testing.T) {
	received := directInvoice(t, models.CategoryAdvance, models.Income, models.Paid, 20000)
	p, err := payment.Post(received, now)
	require.NoError(t, err)
	require.NotNil(t, p.Advance)
	assert.Equal(t, money.Amount(20000), p.Advance.Remaining)
	assert.Equal(t, money.Amount(20000), p.CashMovement)

	refund := directInvoice(t, models.CategoryAdvance, models.Expense, models.Paid, 5000)
	_, err = payment.Post(refund, now)
	assert.ErrorIs(t, err, finerr.ErrInvalidField)

	r, err := payment.PostRepayment(refund, *p.Advance, now)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(15000), r.Advance.Remaining)
	assert.Equal(t, money.Amount(-5000), r.CashMovement)
	assert.Equal(t, money.Amount(20000), p.Advance.Remaining)

	big := directInvoice(t, models.CategoryAdvance, models.Expense, models.Paid, 25000)
	_, err = payment.PostRepayment(big, *p.Advance, now)
	assert.ErrorIs(t, err, finerr.ErrOverpayment)
}

func TestPost_TamperedInvoice(t *testing.T) {
	inv := productsInvoice(t, models.Paid, 0)
	inv.GrossTotal = 1

	_, err := payment.Post(inv, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, finerr.ErrDataIntegrity)
}

func TestApplyToFund(t *testing.T) {
	fund := models.Fund{ID: "cash", Balance: 3000}

	out, err := payment.ApplyToFund(fund, payment.Posting{CashMovement: -3000})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), out.Balance)

	_, err = payment.ApplyToFund(fund, payment.Posting{CashMovement: -3001})
	assert.ErrorIs(t, err, finerr.ErrInsufficientBalance)
	assert.Equal(t, money.Amount(3000), fund.Balance)

	_, err = payment.ApplyToFund(models.Fund{ID: "bad", Balance: -1}, payment.Posting{})
	assert.ErrorIs(t, err, finerr.ErrDataIntegrity)
}

func TestCollectDebtPayment(t *testing.T) {
	p, err := payment.Post(productsInvoice(t, models.Breakage, 10000), now)
	require.NoError(t, err)
	fund := models.Fund{ID: "cash", Balance: 10000}

	debt, f, err := payment.CollectDebtPayment(*p.Debt, fund, 23000, now.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.DebtPaid, debt.Status)
	assert.Equal(t, money.Amount(33000), f.Balance)

	_, _, err = payment.CollectDebtPayment(debt, f, 1, now.Add(48*time.Hour))
	assert.ErrorIs(t, err, finerr.ErrAlreadySettled)
}

func TestCollectDebtPayment_PayableNeedsCash(t *testing.T) {
	inv, err := invoice.New(invoice.Input{
		Category:     models.CategoryDirect,
		Direction:    models.Expense,
		TotalAmount:  8000,
		PaymentState: models.Unpaid,
		EmployeeID:   "emp-3",
	}, now)
	require.NoError(t, err)

	p, err := payment.Post(inv, now)
	require.NoError(t, err)
	require.NotNil(t, p.Debt)
	assert.Equal(t, models.OwnerEmployee, p.Debt.Owner.Kind)

	_, _, err = payment.CollectDebtPayment(*p.Debt, models.Fund{ID: "cash", Balance: 500}, 1000, now)
	assert.ErrorIs(t, err, finerr.ErrInsufficientBalance)

	debt, f, err := payment.CollectDebtPayment(*p.Debt, models.Fund{ID: "cash", Balance: 5000}, 1000, now)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(7000), debt.Remaining)
	assert.Equal(t, money.Amount(4000), f.Balance)
}

func TestPoster(t *testing.T) {
	poster := payment.NewPoster()

	posting, fund, err := poster.Post(productsInvoice(t, models.Breakage, 10000), models.Fund{ID: "cash"})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(10000), fund.Balance)
	require.NotNil(t, posting.Debt)

	_, _, err = poster.Post(directInvoice(t, models.CategoryDirect, models.Expense, models.Paid, 99999), fund)
	assert.ErrorIs(t, err, finerr.ErrInsufficientBalance)
}
