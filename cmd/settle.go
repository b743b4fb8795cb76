package cmd

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"finance/internal/finerr"
	"finance/internal/logger"
	"finance/internal/money"
	"finance/internal/settlement"
	"finance/pkg/models"
)

var settleCmd = &cobra.Command{
	Use:   "settle [request.json]",
	Short: "Distribute a settlement from a workshop balance to its employees",
	Long: `Settle part or all of a workshop balance.

In manual mode the split is taken as entered and must add up to the amount
exactly. In automatic mode the amount is divided in proportion to the work
recorded since the previous settlement: hours for hourly workshops, production
value (quantity x rate) for production workshops. Rounding leftovers go to the
employee with the most work, so the shares always add up to the amount.

The request file looks like:
  {
    "workshop": {"id": "ws-1", "name": "Pastry", "kind": "hourly", "balance": 90000,
                 "members": ["emp1", "emp2"]},
    "amount": "300",
    "mode": "automatic",
    "work_entries": [
      {"employee_id": "emp1", "date": "2026-06-03", "hours": "6"},
      {"employee_id": "emp2", "date": "2026-06-03", "hours": "4"}
    ]
  }
The workshop record is stored data, so its balance is in minor units; amounts
entered by people are decimal strings.`,
	Example: `  finance settle request.json
  finance settle request.json --json > result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSettle,
}

// SettleRequest is the settlement request file.
type SettleRequest struct {
	Workshop    models.Workshop `json:"workshop"`
	Amount      string          `json:"amount" validate:"required"`
	Mode        string          `json:"mode" validate:"required,oneof=manual automatic"`
	Splits      []SplitInput    `json:"splits" validate:"required_if=Mode manual,dive"`
	WorkEntries []WorkInput     `json:"work_entries" validate:"dive"`
	Date        string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// SplitInput is one manual split of SettleRequest.
type SplitInput struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Amount     string `json:"amount" validate:"required"`
}

// WorkInput is one work log entry of SettleRequest.
type WorkInput struct {
	EmployeeID     string `json:"employee_id" validate:"required"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Hours          string `json:"hours" validate:"omitempty,numeric"`
	Quantity       string `json:"quantity" validate:"omitempty,numeric"`
	ProductionRate string `json:"production_rate"`
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func init() {
	rootCmd.AddCommand(settleCmd)

	settleCmd.Flags().Bool("json", false, "Output as JSON format")
}

func runSettle(cmd *cobra.Command, args []string) error {
	const op = "runSettle"
	log := logger.WithCommand("settle")

	jsonOutput, _ := cmd.Flags().GetBool("json")

	var raw SettleRequest
	if err := readJSONFile(args[0], &raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := buildSettlementRequest(raw)
	if err != nil {
		log.Warn().Err(err).Str("file", args[0]).Msg("Settlement request rejected")
		return err
	}

	res, err := settlement.NewDistributor().Settle(req)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(res)
	}
	printSettlementConsole(res, req.Workshop, appConfig.Currency())
	return nil
}

// buildSettlementRequest checks the shape of raw and converts it into a typed request.
func buildSettlementRequest(raw SettleRequest) (settlement.Request, error) {
	cur := appConfig.Currency()
	loc := appConfig.Location()
	var errs finerr.ValidationErrors

	if err := requestValidator.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return settlement.Request{}, err
		}
		for _, fe := range verrs {
			field := fe.Namespace()
			if i := strings.Index(field, "."); i >= 0 {
				field = field[i+1:]
			}
			errs.Add(finerr.InvalidField(field, fe.Value(), "failed '"+fe.Tag()+"' rule"))
		}
		return settlement.Request{}, errs.Err()
	}

	if strings.TrimSpace(raw.Workshop.ID) == "" {
		errs.Add(finerr.InvalidField("workshop.id", nil, "required"))
	}

	req := settlement.Request{
		Workshop: raw.Workshop,
		Mode:     models.DistributionType(raw.Mode),
		At:       time.Now(),
	}

	amount, err := cur.Parse(raw.Amount)
	if err != nil {
		errs.Add(finerr.InvalidAmount("amount", raw.Amount, "not a valid amount"))
	}
	req.Amount = amount

	if raw.Date != "" {
		at, err := time.ParseInLocation("2006-01-02", raw.Date, loc)
		if err == nil {
			// end of the day, so work logged on that day is included
			req.At = at.AddDate(0, 0, 1).Add(-1)
		}
	}

	for i, sp := range raw.Splits {
		a, err := cur.Parse(sp.Amount)
		if err != nil {
			errs.Add(finerr.InvalidAmount(fmt.Sprintf("splits[%d].amount", i), sp.Amount, "not a valid amount"))
			continue
		}
		req.ManualSplits = append(req.ManualSplits, models.Distribution{EmployeeID: strings.TrimSpace(sp.EmployeeID), Amount: a})
	}

	for i, w := range raw.WorkEntries {
		entry, err := buildWorkEntry(w, cur, loc)
		if err != nil {
			errs.Add(finerr.InvalidField(fmt.Sprintf("work_entries[%d]", i), nil, err.Error()))
			continue
		}
		req.WorkEntries = append(req.WorkEntries, entry)
	}

	if err := errs.Err(); err != nil {
		return settlement.Request{}, err
	}
	return req, nil
}

func buildWorkEntry(w WorkInput, cur money.Currency, loc *time.Location) (models.WorkEntry, error) {
	day, err := time.ParseInLocation("2006-01-02", w.Date, loc)
	if err != nil {
		return models.WorkEntry{}, fmt.Errorf("invalid date %q", w.Date)
	}

	entry := models.WorkEntry{
		EmployeeID: strings.TrimSpace(w.EmployeeID),
		Date:       settlement.NormalizeWorkDate(day, appConfig.BusinessDayAnchorHour, loc),
		Hours:      decimal.Zero,
		Quantity:   decimal.Zero,
	}
	if w.Hours != "" {
		if entry.Hours, err = decimal.NewFromString(w.Hours); err != nil {
			return models.WorkEntry{}, fmt.Errorf("invalid hours %q", w.Hours)
		}
	}
	if w.Quantity != "" {
		if entry.Quantity, err = decimal.NewFromString(w.Quantity); err != nil {
			return models.WorkEntry{}, fmt.Errorf("invalid quantity %q", w.Quantity)
		}
	}
	if entry.ProductionRate, err = cur.ParseOptional(w.ProductionRate); err != nil {
		return models.WorkEntry{}, fmt.Errorf("invalid production rate %q", w.ProductionRate)
	}
	return entry, nil
}

func printSettlementConsole(res settlement.Result, before models.Workshop, cur money.Currency) {
	s := res.Settlement

	printBanner("WORKSHOP SETTLEMENT")
	fmt.Printf("Workshop: %s (%s, %s)\n", before.Name, before.ID, before.Kind)
	fmt.Printf("Settlement: %s (%s)\n", s.ID, s.DistributionType)
	if s.PeriodStart != nil {
		fmt.Printf("Period: %s to %s\n",
			s.PeriodStart.In(appConfig.Location()).Format("2006-01-02"),
			s.CreatedAt.In(appConfig.Location()).Format("2006-01-02"))
	}
	fmt.Printf("Amount: %s\n", cur.FormatWithCode(s.Amount))
	fmt.Println()

	fmt.Println("=== DISTRIBUTION ===")
	for _, d := range s.Distributions {
		fmt.Printf("  %-24s %14s  (%5.1f%%)\n", d.EmployeeID, cur.Format(d.Amount), money.Percent(d.Amount, s.Amount))
	}
	fmt.Println()

	fmt.Printf("Balance: %s -> %s\n", cur.FormatWithCode(before.Balance), cur.FormatWithCode(res.Workshop.Balance))
	fmt.Println(strings.Repeat("=", 80))
}
