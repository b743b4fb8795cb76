package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finance/internal/ledger"
	"finance/internal/logger"
	"finance/internal/money"
	"finance/internal/payment"
	"finance/pkg/models"
)

var debtCmd = &cobra.Command{
	Use:   "debt",
	Short: "Pay down and inspect debts",
	Long: `Work with a debt record as stored by the caller (JSON, as printed by
"finance invoice --post --json").`,
}

var debtPayCmd = &cobra.Command{
	Use:   "pay [debt.json]",
	Short: "Apply a payment to a debt",
	Long: `Apply one payment to a debt and print the updated record.

The payment must be positive and may not exceed the remaining amount; it is
rejected, never clamped. A debt that reaches zero is paid and accepts no further
payments. With --fund-balance the cash is moved through the fund as well: in for
debts owed to the business, out for debts the business owes.`,
	Example: `  # Pay 230.00 today
  finance debt pay debt.json --amount 230

  # Pay on a given date and move the cash through the fund
  finance debt pay debt.json --amount 50 --date 2026-03-14 --fund-balance 1200 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runDebtPay,
}

var debtShowCmd = &cobra.Command{
	Use:   "show [debt.json]",
	Short: "Show payment progress and age of a debt",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebtShow,
}

// DebtOutput is the JSON output of the debt commands.
type DebtOutput struct {
	Debt            models.Debt  `json:"debt"`
	Fund            *models.Fund `json:"fund,omitempty"`
	PaymentProgress float64      `json:"payment_progress"`
	PendingDays     *int         `json:"pending_days,omitempty"`
	PaidAfterDays   *int         `json:"paid_after_days,omitempty"`
}

func init() {
	rootCmd.AddCommand(debtCmd)
	debtCmd.AddCommand(debtPayCmd)
	debtCmd.AddCommand(debtShowCmd)

	debtPayCmd.Flags().String("amount", "", "Payment amount (required)")
	debtPayCmd.Flags().String("date", "", "Payment date YYYY-MM-DD (default: now)")
	debtPayCmd.Flags().String("fund", "cash", "Fund ID the payment moves through")
	debtPayCmd.Flags().String("fund-balance", "", "Current fund balance; moves the cash through the fund when set")
	debtPayCmd.Flags().Bool("json", false, "Output as JSON format")
	_ = debtPayCmd.MarkFlagRequired("amount")

	debtShowCmd.Flags().Bool("json", false, "Output as JSON format")
}

func runDebtPay(cmd *cobra.Command, args []string) error {
	const op = "runDebtPay"
	log := logger.WithCommand("debt pay")

	jsonOutput, _ := cmd.Flags().GetBool("json")
	rawDate, _ := cmd.Flags().GetString("date")
	rawFund, _ := cmd.Flags().GetString("fund-balance")

	var debt models.Debt
	if err := readJSONFile(args[0], &debt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	amount, err := parseAmountFlag(cmd, "amount")
	if err != nil {
		return err
	}
	at, err := paymentTime(rawDate, debt.CreatedAt)
	if err != nil {
		return err
	}

	log.Info().
		Str("debt_id", debt.ID).
		Int64("amount", int64(amount)).
		Time("at", at).
		Msg("Applying debt payment")

	out := DebtOutput{}
	if rawFund != "" {
		fundID, _ := cmd.Flags().GetString("fund")
		balance, err := parseAmountFlag(cmd, "fund-balance")
		if err != nil {
			return err
		}
		paid, fund, err := payment.NewPoster().CollectDebtPayment(debt, models.Fund{ID: fundID, Balance: balance}, amount, at)
		if err != nil {
			return err
		}
		out.Debt, out.Fund = paid, &fund
	} else {
		paid, err := ledger.NewService().PayDebt(debt, amount, at)
		if err != nil {
			return err
		}
		out.Debt = paid
	}

	fillDebtFigures(&out, time.Now())
	if jsonOutput {
		return printJSON(out)
	}
	printDebtConsole(out, appConfig.Currency())
	return nil
}

func runDebtShow(cmd *cobra.Command, args []string) error {
	const op = "runDebtShow"

	jsonOutput, _ := cmd.Flags().GetBool("json")

	var debt models.Debt
	if err := readJSONFile(args[0], &debt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := ledger.Check(debt); err != nil {
		return err
	}

	out := DebtOutput{Debt: debt}
	fillDebtFigures(&out, time.Now())
	if jsonOutput {
		return printJSON(out)
	}
	printDebtConsole(out, appConfig.Currency())
	return nil
}

func fillDebtFigures(out *DebtOutput, now time.Time) {
	d := out.Debt
	out.PaymentProgress = ledger.PaymentProgress(d.Principal, d.Remaining)
	if days, ok := ledger.PendingSince(d, now, appConfig.Location()); ok {
		out.PendingDays = &days
	}
	if days, ok := ledger.PaidAfter(d, appConfig.Location()); ok {
		out.PaidAfterDays = &days
	}
}

func describeDebt(d models.Debt, cur money.Currency) string {
	side := "owed by"
	if d.Direction == models.Expense {
		side = "owed to"
	}
	return fmt.Sprintf("%s (%s %s %s %s)", d.ID, cur.FormatWithCode(d.Remaining), side, d.Owner.Kind, d.Owner.ID)
}

func printDebtConsole(out DebtOutput, cur money.Currency) {
	d := out.Debt

	printBanner("DEBT")
	fmt.Printf("Debt: %s\n", describeDebt(d, cur))
	fmt.Printf("Status: %s\n", d.Status)
	fmt.Printf("Principal: %s\n", cur.FormatWithCode(d.Principal))
	fmt.Printf("Paid: %s (%d%%)\n", cur.FormatWithCode(d.Paid()), ledger.DisplayProgress(out.PaymentProgress))
	fmt.Printf("Remaining: %s\n", cur.FormatWithCode(d.Remaining))
	if out.PendingDays != nil {
		fmt.Printf("Pending since: %d days\n", *out.PendingDays)
	}
	if out.PaidAfterDays != nil {
		fmt.Printf("Paid after: %d days\n", *out.PaidAfterDays)
	}

	if len(d.Payments) > 0 {
		fmt.Println()
		fmt.Println("=== PAYMENTS ===")
		for _, p := range d.Payments {
			fmt.Printf("  %s  %14s\n", p.PaidAt.In(appConfig.Location()).Format("2006-01-02"), cur.Format(p.Amount))
		}
	}
	if out.Fund != nil {
		fmt.Println()
		fmt.Printf("Fund %s balance: %s\n", out.Fund.ID, cur.FormatWithCode(out.Fund.Balance))
	}
}
