package finerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance/internal/finerr"
)

func TestValidationErrors(t *testing.T) {
	var v finerr.ValidationErrors
	require.True(t, v.Empty())
	require.NoError(t, v.Err())

	v.Add(finerr.InvalidAmount("discount", -1, "must not be negative"))
	v.Add(finerr.InvalidField("employeeId", nil, "required for EMPLOYEE invoices"))
	v.Add(finerr.InvalidField("employeeId", "x", "second message"))

	err := v.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, finerr.ErrInvalidAmount)
	assert.ErrorIs(t, err, finerr.ErrInvalidField)
	assert.NotErrorIs(t, err, finerr.ErrOverpayment)

	byField := v.ByField()
	assert.Equal(t, "must not be negative", byField["discount"])
	assert.Equal(t, "required for EMPLOYEE invoices", byField["employeeId"])
}

func TestMismatchError(t *testing.T) {
	short := &finerr.MismatchError{Expected: 90000, Actual: 80000}
	assert.Equal(t, int64(10000), short.Shortfall())
	assert.Equal(t, int64(0), short.Excess())
	assert.Contains(t, short.Error(), "shortfall of 10000")
	assert.ErrorIs(t, short, finerr.ErrDistributionMismatch)

	over := &finerr.MismatchError{Expected: 100, Actual: 150}
	assert.Equal(t, int64(50), over.Excess())
	assert.Contains(t, over.Error(), "excess of 50")
}

func TestWrap(t *testing.T) {
	assert.NoError(t, finerr.Wrap("Op", nil, ""))

	err := finerr.Wrap("ApplyPayment", finerr.ErrOverpayment, "debt d-1")
	assert.ErrorIs(t, err, finerr.ErrOverpayment)
	assert.Equal(t, "ApplyPayment failed: debt d-1: payment exceeds remaining amount", err.Error())

	again := finerr.Wrap("Outer", err, "")
	assert.Same(t, err, again)
}

func TestIsValidation(t *testing.T) {
	assert.True(t, finerr.IsValidation(fmt.Errorf("x: %w", finerr.ErrInsufficientBalance)))
	assert.False(t, finerr.IsValidation(&finerr.IntegrityError{Record: "debt", ID: "d", Details: "negative"}))
	assert.False(t, finerr.IsValidation(errors.New("boom")))
	assert.False(t, finerr.IsValidation(nil))
}
