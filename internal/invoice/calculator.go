package invoice

import (
	"fmt"

	"finance/internal/finerr"
	"finance/internal/money"
	"finance/pkg/models"
)

// ComputeTotals derives grossTotal (and the BREAKAGE remainder) from in.
// All violations are returned together; on error the Totals are zero.
func ComputeTotals(in Input) (Totals, error) {
	var errs finerr.ValidationErrors

	if !in.Category.IsValid() {
		errs.Add(finerr.InvalidField("category", in.Category, "unknown category"))
	}
	if !in.Direction.IsValid() {
		errs.Add(finerr.InvalidField("direction", in.Direction, "unknown direction"))
	}
	if !in.PaymentState.IsValid() {
		errs.Add(finerr.InvalidField("paymentState", in.PaymentState, "unknown payment state"))
	}
	if !errs.Empty() {
		return Totals{}, errs.Err()
	}

	var gross money.Amount
	grossOK := true
	if in.Category == models.CategoryProducts {
		gross, grossOK = productsTotal(in, &errs)
	} else {
		gross, grossOK = enteredTotal(in, &errs)
	}

	checkTrayCount(in, &errs)
	checkCounterpart(in, &errs)
	remaining := checkPayment(in, gross, grossOK, &errs)

	if !errs.Empty() {
		return Totals{}, errs.Err()
	}
	return Totals{GrossTotal: gross, RemainingAfterFirstPayment: remaining}, nil
}

func productsTotal(in Input, errs *finerr.ValidationErrors) (money.Amount, bool) {
	ok := true

	if len(in.LineItems) == 0 {
		errs.Add(finerr.InvalidField("lineItems", nil, "at least one line item is required for PRODUCTS invoices"))
		ok = false
	}
	if in.TotalAmount != 0 {
		errs.Add(finerr.InvalidField("totalAmount", in.TotalAmount, "derived from line items for PRODUCTS invoices"))
	}
	if in.Discount < 0 {
		errs.Add(finerr.InvalidAmount("discount", in.Discount, "must not be negative"))
		ok = false
	}
	if in.AdditionalAmount < 0 {
		errs.Add(finerr.InvalidAmount("additionalAmount", in.AdditionalAmount, "must not be negative"))
		ok = false
	}

	lines := make([]money.Amount, 0, len(in.LineItems))
	for i, item := range in.LineItems {
		if !checkLineItem(i, item, errs) {
			ok = false
			continue
		}
		line, err := money.MulDecimal(item.UnitPrice, item.Quantity)
		if err != nil {
			errs.Add(finerr.InvalidAmount(fmt.Sprintf("lineItems[%d].unitPrice", i), item.UnitPrice, "quantity x unit price is out of range"))
			ok = false
			continue
		}
		lines = append(lines, line)
	}
	if !ok {
		return 0, false
	}

	subtotal, err := money.Sum(lines...)
	if err != nil {
		errs.Add(finerr.InvalidAmount("grossTotal", nil, "line totals exceed the largest amount"))
		return 0, false
	}
	gross, err := money.Sum(subtotal, -in.Discount, in.AdditionalAmount)
	if err != nil {
		errs.Add(finerr.InvalidAmount("grossTotal", nil, "total exceeds the largest amount"))
		return 0, false
	}
	if gross < 0 {
		errs.Add(finerr.InvalidAmount("grossTotal", gross, "discount exceeds the invoice total"))
		return 0, false
	}
	return gross, true
}

func checkLineItem(i int, item models.LineItem, errs *finerr.ValidationErrors) bool {
	field := func(name string) string { return fmt.Sprintf("lineItems[%d].%s", i, name) }
	ok := true

	if item.ItemID == "" {
		errs.Add(finerr.InvalidField(field("itemId"), nil, "required"))
		ok = false
	}
	if !item.Quantity.IsPositive() {
		errs.Add(finerr.InvalidField(field("quantity"), item.Quantity.String(), "must be positive"))
		ok = false
	}
	if item.UnitPrice < 0 {
		errs.Add(finerr.InvalidAmount(field("unitPrice"), item.UnitPrice, "must not be negative"))
		ok = false
	}
	if !item.ConversionFactor.IsPositive() {
		errs.Add(finerr.InvalidField(field("conversionFactor"), item.ConversionFactor.String(), "must be positive"))
		ok = false
	}
	if item.ProductionRate < 0 {
		errs.Add(finerr.InvalidAmount(field("productionRate"), item.ProductionRate, "must not be negative"))
		ok = false
	}
	return ok
}

func enteredTotal(in Input, errs *finerr.ValidationErrors) (money.Amount, bool) {
	ok := true

	if len(in.LineItems) > 0 {
		errs.Add(finerr.InvalidField("lineItems", len(in.LineItems), fmt.Sprintf("not allowed for %s invoices", in.Category)))
	}
	if in.Discount != 0 {
		errs.Add(finerr.InvalidField("discount", in.Discount, fmt.Sprintf("not allowed for %s invoices", in.Category)))
	}
	if in.AdditionalAmount != 0 {
		errs.Add(finerr.InvalidField("additionalAmount", in.AdditionalAmount, fmt.Sprintf("not allowed for %s invoices", in.Category)))
	}
	if in.TotalAmount <= 0 {
		errs.Add(finerr.InvalidAmount("totalAmount", in.TotalAmount, "must be positive"))
		ok = false
	}
	return in.TotalAmount, ok
}

func checkTrayCount(in Input, errs *finerr.ValidationErrors) {
	if in.TrayCount == nil {
		return
	}
	if in.Category != models.CategoryProducts || in.Direction != models.Income {
		errs.Add(finerr.InvalidField("trayCount", *in.TrayCount, "only allowed for PRODUCTS income invoices"))
		return
	}
	if *in.TrayCount < 0 {
		errs.Add(finerr.InvalidField("trayCount", *in.TrayCount, "must not be negative"))
	}
}

func checkCounterpart(in Input, errs *finerr.ValidationErrors) {
	if in.CustomerID != "" && in.EmployeeID != "" {
		errs.Add(finerr.InvalidField("employeeId", in.EmployeeID, "an invoice has either a customer or an employee, not both"))
		return
	}

	switch {
	case in.Category == models.CategoryAdvance && in.CustomerID == "":
		errs.Add(finerr.InvalidField("customerId", nil, "required for ADVANCE invoices"))
	case in.Category == models.CategoryDebt && in.Direction == models.Income && in.CustomerID == "":
		errs.Add(finerr.InvalidField("customerId", nil, "required for DEBT income invoices"))
	case in.Category == models.CategoryEmployee && in.EmployeeID == "":
		errs.Add(finerr.InvalidField("employeeId", nil, "required for EMPLOYEE invoices"))
	case in.PaymentState != models.Paid && in.CustomerID == "" && in.EmployeeID == "":
		errs.Add(finerr.InvalidField("customerId", nil, "an unpaid balance needs a customer or an employee to owe it"))
	}
}

// checkPayment validates the payment state fields and returns the BREAKAGE remainder.
func checkPayment(in Input, gross money.Amount, grossOK bool, errs *finerr.ValidationErrors) *money.Amount {
	if in.Category == models.CategoryAdvance && in.PaymentState != models.Paid {
		errs.Add(finerr.InvalidField("paymentState", in.PaymentState, "advances are paid upfront"))
		return nil
	}

	switch in.PaymentState {
	case models.Paid:
		if in.FirstPayment != 0 {
			errs.Add(finerr.InvalidField("firstPayment", in.FirstPayment, "only allowed for BREAKAGE invoices"))
		}
	case models.Unpaid:
		if in.FirstPayment != 0 {
			errs.Add(finerr.InvalidField("firstPayment", in.FirstPayment, "only allowed for BREAKAGE invoices"))
		}
		if grossOK && gross == 0 {
			errs.Add(finerr.InvalidAmount("grossTotal", gross, "an unpaid invoice needs a positive total"))
		}
	case models.Breakage:
		if in.FirstPayment <= 0 {
			errs.Add(finerr.InvalidAmount("firstPayment", in.FirstPayment, "required and must be positive"))
			return nil
		}
		if !grossOK {
			return nil
		}
		if in.FirstPayment >= gross {
			errs.Add(finerr.InvalidAmount("firstPayment", in.FirstPayment, "must be less than the gross total"))
			return nil
		}
		remaining := gross - in.FirstPayment
		return &remaining
	}
	return nil
}
