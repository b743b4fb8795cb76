package invoice

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"finance/internal/finerr"
	"finance/internal/money"
	"finance/pkg/models"
)

// RawForm is the invoice form exactly as the presentation layer submits it.
type RawForm struct {
	Category         string        `json:"category" validate:"required,oneof=PRODUCTS DIRECT DEBT ADVANCE EMPLOYEE"`
	Direction        string        `json:"direction" validate:"required,oneof=INCOME EXPENSE"`
	LineItems        []RawLineItem `json:"lineItems" validate:"dive"`
	Discount         string        `json:"discount"`
	AdditionalAmount string        `json:"additionalAmount"`
	TotalAmount      string        `json:"totalAmount"`
	TrayCount        string        `json:"trayCount" validate:"omitempty,number"`
	PaymentState     string        `json:"paymentState" validate:"required,oneof=PAID UNPAID BREAKAGE"`
	FirstPayment     string        `json:"firstPayment"`
	CustomerID       string        `json:"customerId" validate:"omitempty,max=64"`
	EmployeeID       string        `json:"employeeId" validate:"omitempty,max=64"`
	Note             string        `json:"note" validate:"max=500"`
}

// RawLineItem is one line item row of RawForm.
type RawLineItem struct {
	ItemID           string `json:"itemId" validate:"required,max=64"`
	Quantity         string `json:"quantity" validate:"required"`
	UnitPrice        string `json:"unitPrice" validate:"required"`
	Unit             string `json:"unit" validate:"max=16"`
	ConversionFactor string `json:"conversionFactor"`
	ProductionRate   string `json:"productionRate"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages match the form
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseForm checks the shape of form and converts it into a typed Input.
// It only reports parse and shape problems; business rules are left to ComputeTotals.
func ParseForm(form RawForm, cur money.Currency) (Input, error) {
	var errs finerr.ValidationErrors

	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Input{}, fmt.Errorf("ParseForm: %w", err)
		}
		for _, fe := range verrs {
			errs.Add(finerr.InvalidField(fieldPath(fe.Namespace()), fe.Value(), ruleMessage(fe)))
		}
	}

	in := Input{
		Category:     models.Category(strings.ToUpper(strings.TrimSpace(form.Category))),
		Direction:    models.Direction(strings.ToUpper(strings.TrimSpace(form.Direction))),
		PaymentState: models.PaymentState(strings.ToUpper(strings.TrimSpace(form.PaymentState))),
		CustomerID:   strings.TrimSpace(form.CustomerID),
		EmployeeID:   strings.TrimSpace(form.EmployeeID),
		Note:         strings.TrimSpace(form.Note),
	}

	in.Discount = parseAmount(cur, "discount", form.Discount, &errs)
	in.AdditionalAmount = parseAmount(cur, "additionalAmount", form.AdditionalAmount, &errs)
	in.TotalAmount = parseAmount(cur, "totalAmount", form.TotalAmount, &errs)
	in.FirstPayment = parseAmount(cur, "firstPayment", form.FirstPayment, &errs)

	if s := strings.TrimSpace(form.TrayCount); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			errs.Add(finerr.InvalidField("trayCount", form.TrayCount, "must be a whole number"))
		} else {
			in.TrayCount = &n
		}
	}

	for i, raw := range form.LineItems {
		in.LineItems = append(in.LineItems, parseLineItem(cur, i, raw, &errs))
	}

	if !errs.Empty() {
		return Input{}, errs.Err()
	}
	return in, nil
}

func parseLineItem(cur money.Currency, i int, raw RawLineItem, errs *finerr.ValidationErrors) models.LineItem {
	field := func(name string) string { return fmt.Sprintf("lineItems[%d].%s", i, name) }

	item := models.LineItem{
		ItemID: strings.TrimSpace(raw.ItemID),
		Unit:   strings.TrimSpace(raw.Unit),
	}
	item.Quantity = parseDecimal(field("quantity"), raw.Quantity, "0", errs)
	item.ConversionFactor = parseDecimal(field("conversionFactor"), raw.ConversionFactor, "1", errs)
	item.UnitPrice = parseAmount(cur, field("unitPrice"), raw.UnitPrice, errs)
	item.ProductionRate = parseAmount(cur, field("productionRate"), raw.ProductionRate, errs)
	return item
}

func parseAmount(cur money.Currency, field, raw string, errs *finerr.ValidationErrors) money.Amount {
	a, err := cur.ParseOptional(raw)
	if err != nil {
		msg := "not a valid amount"
		var fe *finerr.FieldError
		if errors.As(err, &fe) {
			msg = fe.Message
		}
		errs.Add(finerr.InvalidAmount(field, raw, msg))
		return 0
	}
	return a
}

func parseDecimal(field, raw, fallback string, errs *finerr.ValidationErrors) decimal.Decimal {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		s = fallback
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		errs.Add(finerr.InvalidField(field, raw, "not a decimal number"))
		return decimal.Zero
	}
	return d
}

// fieldPath drops the struct name from a validator namespace: "RawForm.lineItems[0].itemId"
// becomes "lineItems[0].itemId".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "number":
		return "must be a whole number"
	default:
		return "failed '" + fe.Tag() + "' rule"
	}
}
