package money_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/finerr"
	"finance/internal/money"
)

func TestParse(t *testing.T) {
	dzd := money.Currency{Code: "DZD", Digits: 2}

	cases := []struct {
		in       string
		expected money.Amount
	}{
		{"330", 33000},
		{"330.5", 33050},
		{"1,234.50", 123450},
		{"  DZD 20,000 ", 2000000},
		{"12.34 DZD", 1234},
		{"-5", -500},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := dzd.Parse(tc.in)
		require.NoError(t, err, "Parse(%q)", tc.in)
		assert.Equal(t, tc.expected, got, "Parse(%q)", tc.in)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "1.234", "12.3.4"} {
		_, err := money.Default.Parse(in)
		require.Error(t, err, "Parse(%q)", in)
		assert.ErrorIs(t, err, finerr.ErrInvalidAmount)
	}
}

func TestParseOptional(t *testing.T) {
	got, err := money.Default.ParseOptional("")
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), got)

	got, err = money.Default.ParseOptional("10")
	require.NoError(t, err)
	assert.Equal(t, money.Amount(1000), got)
}

func TestZeroDigitCurrency(t *testing.T) {
	jpy := money.Currency{Code: "JPY", Digits: 0}

	got, err := jpy.Parse("1500")
	require.NoError(t, err)
	assert.Equal(t, money.Amount(1500), got)
	assert.Equal(t, "1500", jpy.Format(got))

	_, err = jpy.Parse("1.5")
	assert.ErrorIs(t, err, finerr.ErrInvalidAmount)
}

func TestShare(t *testing.T) {
	assert.Equal(t, money.Amount(18000), money.Share(30000, decimal.NewFromInt(6), decimal.NewFromInt(10)))
	assert.Equal(t, money.Amount(33), money.Share(100, decimal.NewFromInt(1), decimal.NewFromInt(3)))
	assert.Equal(t, money.Amount(67), money.Share(100, decimal.NewFromInt(2), decimal.NewFromInt(3)))
	// 5 x 1/2 = 2.5 rounds away from zero
	assert.Equal(t, money.Amount(3), money.Share(5, decimal.NewFromInt(1), decimal.NewFromInt(2)))
}

func TestMulDecimal(t *testing.T) {
	cases := []struct {
		amount   money.Amount
		q        string
		expected money.Amount
	}{
		{10000, "3", 30000},
		{250, "0.5", 125},
		{333, "0.25", 83},
	}
	for _, tc := range cases {
		got, err := money.MulDecimal(tc.amount, decimal.RequireFromString(tc.q))
		require.NoError(t, err)
		assert.Equal(t, tc.expected, got, "%d x %s", tc.amount, tc.q)
	}
}

func TestOutOfRange(t *testing.T) {
	_, err := money.Default.Parse("100000000000000000000")
	assert.ErrorIs(t, err, finerr.ErrInvalidAmount)

	_, err = money.Default.Parse("-100000000000000000000")
	assert.ErrorIs(t, err, finerr.ErrInvalidAmount)

	_, err = money.MulDecimal(100000000000000, decimal.NewFromInt(1000000000))
	assert.ErrorIs(t, err, finerr.ErrInvalidAmount)

	_, err = money.Sum(9223372036854775000, 9223372036854775000)
	assert.ErrorIs(t, err, finerr.ErrInvalidAmount)

	_, err = money.Sum(-9223372036854775000, -9223372036854775000)
	assert.ErrorIs(t, err, finerr.ErrInvalidAmount)
}

func TestSum(t *testing.T) {
	got, err := money.Sum()
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), got)

	got, err = money.Sum(35000, -2000, 1000)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(34000), got)
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 33.3333, money.Percent(1, 3), 0.001)
	assert.Equal(t, 100.0, money.Percent(500, 500))
	assert.Equal(t, 0.0, money.Percent(0, 500))
}

func ExampleCurrency_Format() {
	dzd := money.Currency{Code: "DZD", Digits: 2}
	a, _ := dzd.Parse("1,234.5")
	fmt.Println(dzd.Format(a))
	fmt.Println(dzd.FormatWithCode(a + 50))
	// Output:
	// 1234.50
	// 1235.00 DZD
}
