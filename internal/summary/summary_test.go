package summary_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/finerr"
	"finance/internal/ledger"
	"finance/internal/money"
	"finance/internal/summary"
	"finance/pkg/models"
)

var (
	start    = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	now      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	customer = models.Owner{Kind: models.OwnerCustomer, ID: "cust-1"}
	employee = models.Owner{Kind: models.OwnerEmployee, ID: "emp-1"}
)

func debt(t *testing.T, owner models.Owner, dir models.Direction, principal money.Amount, opened time.Time) models.Debt {
	t.Helper()
	d, err := ledger.OpenDebt(owner, dir, "", principal, opened)
	require.NoError(t, err)
	return d
}

func pay(t *testing.T, d models.Debt, amount money.Amount, at time.Time) models.Debt {
	t.Helper()
	out, err := ledger.ApplyPayment(d, amount, at)
	require.NoError(t, err)
	return out
}

func TestAggregate_Customer(t *testing.T) {
	onTime := pay(t, debt(t, customer, models.Income, 10000, start), 10000, start.AddDate(0, 0, 10))
	late := pay(t, debt(t, customer, models.Income, 20000, start), 20000, start.AddDate(0, 0, 40))
	partial := pay(t, debt(t, customer, models.Income, 30000, start), 12000, start.AddDate(0, 0, 2))
	fresh := debt(t, customer, models.Income, 5000, now.AddDate(0, 0, -3))
	payable := debt(t, customer, models.Expense, 7000, start)
	other := debt(t, models.Owner{Kind: models.OwnerCustomer, ID: "cust-2"}, models.Income, 99999, start)

	adv, err := ledger.ReceiveAdvance("cust-1", "", 8000, start)
	require.NoError(t, err)
	adv, err = ledger.RepayAdvance(adv, 3000, start.AddDate(0, 0, 1))
	require.NoError(t, err)

	s, err := summary.Aggregate(customer,
		[]models.Debt{onTime, late, partial, fresh, payable, other},
		[]models.Advance{adv},
		nil, now, summary.Options{Location: time.UTC, DueDays: 30})
	require.NoError(t, err)

	assert.Equal(t, money.Amount(65000), s.TotalDebt)
	assert.Equal(t, money.Amount(42000), s.TotalPaid)
	assert.Equal(t, money.Amount(23000), s.PendingAmount)
	assert.Equal(t, 2, s.ActiveDebts)
	assert.Equal(t, 2, s.SettledDebts)
	assert.InDelta(t, 64.615, s.PaymentRatio, 0.001)
	assert.InDelta(t, 25.0, s.AveragePaidAfterDays, 1e-9)
	assert.Equal(t, 55, s.OldestPendingDays)
	// judged: onTime (ok), late (late), partial (pending 55 days); fresh is within its term
	assert.Equal(t, 33, s.ReliabilityScore)
	assert.Equal(t, money.Amount(7000), s.PayableAmount)
	assert.Equal(t, money.Amount(5000), s.AdvanceBalance)
	assert.Zero(t, s.TotalCredited)
}

func TestAggregate_Empty(t *testing.T) {
	s, err := summary.Aggregate(customer, nil, nil, nil, now, summary.Options{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.PaymentRatio)
	assert.Equal(t, 100, s.ReliabilityScore)
	assert.Zero(t, s.PendingAmount)
}

func TestAggregate_Employee(t *testing.T) {
	credits := []models.EmployeeCredit{
		{EmployeeID: "emp-1", Amount: 18000},
		{EmployeeID: "emp-2", Amount: 12000},
		{EmployeeID: "emp-1", Amount: 500},
	}
	loan := debt(t, employee, models.Income, 4000, start)

	s, err := summary.Aggregate(employee, []models.Debt{loan}, nil, credits, now, summary.Options{Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(18500), s.TotalCredited)
	assert.Equal(t, money.Amount(4000), s.PendingAmount)
	assert.Equal(t, 0, s.ReliabilityScore)
}

func TestAggregate_TotalsOutOfRange(t *testing.T) {
	credits := []models.EmployeeCredit{
		{EmployeeID: "emp-1", Amount: 9223372036854775000},
		{EmployeeID: "emp-1", Amount: 9223372036854775000},
	}

	_, err := summary.Aggregate(employee, nil, nil, credits, now, summary.Options{Location: time.UTC})
	assert.ErrorIs(t, err, finerr.ErrInvalidAmount)
}

func TestAggregate_IntegrityFault(t *testing.T) {
	broken := debt(t, customer, models.Income, 1000, start)
	broken.Remaining = 2000

	_, err := summary.Aggregate(customer, []models.Debt{broken}, nil, nil, now, summary.Options{})
	assert.ErrorIs(t, err, finerr.ErrDataIntegrity)

	adv, err := ledger.ReceiveAdvance("cust-1", "", 100, start)
	require.NoError(t, err)
	adv.Status = models.AdvanceRepaid
	_, err = summary.Aggregate(customer, nil, []models.Advance{adv}, nil, now, summary.Options{})
	assert.ErrorIs(t, err, finerr.ErrDataIntegrity)
}

func ExampleAggregate() {
	opened := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	d, _ := ledger.OpenDebt(models.Owner{Kind: models.OwnerCustomer, ID: "c"}, models.Income, "", 23000, opened)
	d, _ = ledger.ApplyPayment(d, 13000, opened.AddDate(0, 0, 4))

	s, _ := summary.Aggregate(d.Owner, []models.Debt{d}, nil, nil, opened.AddDate(0, 0, 9), summary.Options{Location: time.UTC})
	fmt.Printf("pending %s, paid %.1f%%, open for %d days\n",
		money.Default.Format(s.PendingAmount), s.PaymentRatio, s.OldestPendingDays)
	// Output: pending 100.00, paid 56.5%, open for 9 days
}
