// Package finerr defines the typed errors shared by the finance core.
//
// Every failure returned by the core wraps exactly one of the sentinel errors below, so callers
// can branch with errors.Is and render field-level messages from the typed carriers.
// Validation and balance errors are recoverable; ErrDataIntegrity marks a stored record that
// violates its own invariants and must be reported apart from user input problems.
package finerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAmount is returned when a monetary value is malformed, negative where it must
	// not be, or outside the bounds an operation allows.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidField is returned when a value is present where it is forbidden, or missing
	// where it is required.
	ErrInvalidField = errors.New("invalid field")

	// ErrOverpayment is returned when a payment exceeds the remaining amount of a ledger entry.
	ErrOverpayment = errors.New("payment exceeds remaining amount")

	// ErrAlreadySettled is returned when a payment is applied to a settled ledger entry.
	ErrAlreadySettled = errors.New("ledger entry already settled")

	// ErrInsufficientBalance is returned when an amount exceeds the balance it is drawn from.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDistributionMismatch is returned when manual splits do not add up to the settlement amount.
	ErrDistributionMismatch = errors.New("distribution does not match settlement amount")

	// ErrNoWorkRecorded is returned when an automatic settlement finds no work in the period.
	ErrNoWorkRecorded = errors.New("no work recorded in settlement period")

	// ErrDataIntegrity is returned when a stored record breaks its own invariants.
	ErrDataIntegrity = errors.New("data integrity fault")
)

// FieldError names the input field that violated a rule.
type FieldError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s (value: %v): %v", e.Field, e.Message, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// InvalidAmount builds a FieldError wrapping ErrInvalidAmount.
func InvalidAmount(field string, value interface{}, message string) *FieldError {
	return &FieldError{Field: field, Value: value, Message: message, Err: ErrInvalidAmount}
}

// InvalidField builds a FieldError wrapping ErrInvalidField.
func InvalidField(field string, value interface{}, message string) *FieldError {
	return &FieldError{Field: field, Value: value, Message: message, Err: ErrInvalidField}
}

// ValidationErrors collects every field violation found in one input.
type ValidationErrors struct {
	Fields []*FieldError
}

// Add appends a violation.
func (v *ValidationErrors) Add(fe *FieldError) {
	v.Fields = append(v.Fields, fe)
}

// Empty reports whether no violation was recorded.
func (v *ValidationErrors) Empty() bool {
	return v == nil || len(v.Fields) == 0
}

// Err returns nil when the list is empty so callers can return it directly.
func (v *ValidationErrors) Err() error {
	if v.Empty() {
		return nil
	}
	return v
}

// ByField maps field names to their first message, the shape form renderers expect.
func (v *ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(v.Fields))
	for _, fe := range v.Fields {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Fields))
	for _, fe := range v.Fields {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is matches when any collected violation matches target.
func (v *ValidationErrors) Is(target error) bool {
	for _, fe := range v.Fields {
		if errors.Is(fe, target) {
			return true
		}
	}
	return false
}

// MismatchError reports how far a manual distribution is from the settlement amount.
// Amounts are in minor currency units.
type MismatchError struct {
	Expected int64
	Actual   int64
}

// Difference is Actual - Expected; negative means a shortfall.
func (e *MismatchError) Difference() int64 {
	return e.Actual - e.Expected
}

// Shortfall returns the missing amount, or 0 when the splits exceed the total.
func (e *MismatchError) Shortfall() int64 {
	if d := e.Difference(); d < 0 {
		return -d
	}
	return 0
}

// Excess returns the surplus amount, or 0 when the splits fall short.
func (e *MismatchError) Excess() int64 {
	if d := e.Difference(); d > 0 {
		return d
	}
	return 0
}

func (e *MismatchError) Error() string {
	if s := e.Shortfall(); s > 0 {
		return fmt.Sprintf("%v: shortfall of %d (expected %d, got %d)", ErrDistributionMismatch, s, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%v: excess of %d (expected %d, got %d)", ErrDistributionMismatch, e.Excess(), e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() error {
	return ErrDistributionMismatch
}

// IntegrityError describes a stored record found in an impossible state.
type IntegrityError struct {
	Record  string
	ID      string
	Details string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%v: %s %s: %s", ErrDataIntegrity, e.Record, e.ID, e.Details)
}

func (e *IntegrityError) Unwrap() error {
	return ErrDataIntegrity
}

// OpError wraps a failure with the operation that produced it.
type OpError struct {
	// Op is the operation that failed (e.g., "ApplyPayment", "Distribute").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

func (e *OpError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *OpError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// Wrap wraps err as an OpError if it isn't already one.
func Wrap(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var opErr *OpError
	if errors.As(err, &opErr) {
		return err // Already wrapped
	}

	return &OpError{Op: op, Err: err, Details: details}
}

// IsValidation reports whether err is a recoverable input or balance error rather than an
// integrity fault.
func IsValidation(err error) bool {
	if err == nil || errors.Is(err, ErrDataIntegrity) {
		return false
	}
	for _, target := range []error{
		ErrInvalidAmount, ErrInvalidField, ErrOverpayment, ErrAlreadySettled,
		ErrInsufficientBalance, ErrDistributionMismatch, ErrNoWorkRecorded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
