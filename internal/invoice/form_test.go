package invoice_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/finerr"
	"finance/internal/invoice"
	"finance/internal/money"
	"finance/pkg/models"
)

func scenarioForm() invoice.RawForm {
	return invoice.RawForm{
		Category:  "PRODUCTS",
		Direction: "INCOME",
		LineItems: []invoice.RawLineItem{
			{ItemID: "bread", Quantity: "3", UnitPrice: "100", Unit: "piece"},
			{ItemID: "cake", Quantity: "1", UnitPrice: "50.00", Unit: "piece"},
		},
		Discount:         "20",
		AdditionalAmount: "10",
		PaymentState:     "BREAKAGE",
		FirstPayment:     "100",
		CustomerID:       " cust-7 ",
	}
}

func TestParseForm(t *testing.T) {
	in, err := invoice.ParseForm(scenarioForm(), money.Default)
	require.NoError(t, err)

	assert.Equal(t, models.CategoryProducts, in.Category)
	assert.Equal(t, models.Breakage, in.PaymentState)
	assert.Equal(t, money.Amount(2000), in.Discount)
	assert.Equal(t, money.Amount(1000), in.AdditionalAmount)
	assert.Equal(t, money.Amount(10000), in.FirstPayment)
	assert.Equal(t, "cust-7", in.CustomerID)
	require.Len(t, in.LineItems, 2)
	assert.Equal(t, money.Amount(5000), in.LineItems[1].UnitPrice)
	assert.Equal(t, "1", in.LineItems[0].ConversionFactor.String())
	assert.Nil(t, in.TrayCount)
}

func TestParseForm_ShapeErrors(t *testing.T) {
	form := scenarioForm()
	form.Category = "GIFTS"
	form.PaymentState = ""
	form.LineItems[0].ItemID = ""
	form.LineItems[1].Quantity = "lots"
	form.Discount = "2.345"
	form.TrayCount = "many"

	_, err := invoice.ParseForm(form, money.Default)
	require.Error(t, err)
	assert.ErrorIs(t, err, finerr.ErrInvalidField)
	assert.ErrorIs(t, err, finerr.ErrInvalidAmount)

	fields := fieldsOf(t, err)
	for _, f := range []string{"category", "paymentState", "lineItems[0].itemId", "lineItems[1].quantity", "discount", "trayCount"} {
		assert.Contains(t, fields, f)
	}
	assert.Equal(t, "required", fields["paymentState"])
}

func TestParseForm_TrayCount(t *testing.T) {
	form := scenarioForm()
	form.TrayCount = "8"

	in, err := invoice.ParseForm(form, money.Default)
	require.NoError(t, err)
	require.NotNil(t, in.TrayCount)
	assert.Equal(t, 8, *in.TrayCount)
}

func TestParseForm_ThenCompute(t *testing.T) {
	in, err := invoice.ParseForm(scenarioForm(), money.Default)
	require.NoError(t, err)

	totals, err := invoice.ComputeTotals(in)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(33000), totals.GrossTotal)
	assert.Equal(t, money.Amount(23000), *totals.RemainingAfterFirstPayment)
}

// Example shows the form boundary followed by the pure calculator.
func Example() {
	form := invoice.RawForm{
		Category:  "PRODUCTS",
		Direction: "INCOME",
		LineItems: []invoice.RawLineItem{
			{ItemID: "bread", Quantity: "3", UnitPrice: "100"},
			{ItemID: "cake", Quantity: "1", UnitPrice: "50"},
		},
		Discount:         "20",
		AdditionalAmount: "10",
		PaymentState:     "BREAKAGE",
		FirstPayment:     "100",
		CustomerID:       "cust-7",
	}

	in, err := invoice.ParseForm(form, money.Default)
	if err != nil {
		fmt.Println(err)
		return
	}
	totals, err := invoice.ComputeTotals(in)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("gross:", money.Default.Format(totals.GrossTotal))
	fmt.Println("remaining:", money.Default.Format(*totals.RemainingAfterFirstPayment))
	// Output:
	// gross: 330.00
	// remaining: 230.00
}
