package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"finance/internal/ledger"
	"finance/internal/logger"
	"finance/internal/money"
	"finance/pkg/models"
)

var advanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Receive and repay customer advances",
}

var advanceReceiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Record an advance received from a customer",
	Example: `  finance advance receive --customer cust-7 --amount 500 --json > advance.json`,
	Args:    cobra.NoArgs,
	RunE:    runAdvanceReceive,
}

var advanceRepayCmd = &cobra.Command{
	Use:   "repay [advance.json]",
	Short: "Give part of an advance back to its customer",
	Long: `Repay part or all of an advance. Repaying more than what remains is rejected;
an advance that reaches zero is repaid and accepts nothing further.`,
	Example: `  finance advance repay advance.json --amount 200 --date 2026-03-20`,
	Args:    cobra.ExactArgs(1),
	RunE:    runAdvanceRepay,
}

func init() {
	rootCmd.AddCommand(advanceCmd)
	advanceCmd.AddCommand(advanceReceiveCmd)
	advanceCmd.AddCommand(advanceRepayCmd)

	advanceReceiveCmd.Flags().String("customer", "", "Customer ID (required)")
	advanceReceiveCmd.Flags().String("amount", "", "Amount received (required)")
	advanceReceiveCmd.Flags().String("invoice", "", "Invoice the advance was received on")
	advanceReceiveCmd.Flags().Bool("json", false, "Output as JSON format")
	_ = advanceReceiveCmd.MarkFlagRequired("customer")
	_ = advanceReceiveCmd.MarkFlagRequired("amount")

	advanceRepayCmd.Flags().String("amount", "", "Amount repaid (required)")
	advanceRepayCmd.Flags().String("date", "", "Repayment date YYYY-MM-DD (default: now)")
	advanceRepayCmd.Flags().Bool("json", false, "Output as JSON format")
	_ = advanceRepayCmd.MarkFlagRequired("amount")
}

func runAdvanceReceive(cmd *cobra.Command, args []string) error {
	customerID, _ := cmd.Flags().GetString("customer")
	invoiceID, _ := cmd.Flags().GetString("invoice")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	amount, err := parseAmountFlag(cmd, "amount")
	if err != nil {
		return err
	}

	adv, err := ledger.NewService().ReceiveAdvance(customerID, invoiceID, amount)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(adv)
	}
	printAdvanceConsole(adv, appConfig.Currency())
	return nil
}

func runAdvanceRepay(cmd *cobra.Command, args []string) error {
	const op = "runAdvanceRepay"
	log := logger.WithCommand("advance repay")

	rawDate, _ := cmd.Flags().GetString("date")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var adv models.Advance
	if err := readJSONFile(args[0], &adv); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	amount, err := parseAmountFlag(cmd, "amount")
	if err != nil {
		return err
	}
	at, err := paymentTime(rawDate, adv.CreatedAt)
	if err != nil {
		return err
	}

	log.Info().
		Str("advance_id", adv.ID).
		Int64("amount", int64(amount)).
		Msg("Repaying advance")

	repaid, err := ledger.NewService().RepayAdvance(adv, amount, at)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(repaid)
	}
	printAdvanceConsole(repaid, appConfig.Currency())
	return nil
}

func printAdvanceConsole(a models.Advance, cur money.Currency) {
	printBanner("ADVANCE")
	fmt.Printf("Advance: %s\n", a.ID)
	fmt.Printf("Customer: %s\n", a.CustomerID)
	fmt.Printf("Status: %s\n", a.Status)
	fmt.Printf("Amount: %s\n", cur.FormatWithCode(a.Amount))
	fmt.Printf("Remaining: %s\n", cur.FormatWithCode(a.Remaining))

	if len(a.Repayments) > 0 {
		fmt.Println()
		fmt.Println("=== REPAYMENTS ===")
		for _, r := range a.Repayments {
			fmt.Printf("  %s  %14s\n", r.PaidAt.In(appConfig.Location()).Format("2006-01-02"), cur.Format(r.Amount))
		}
	}
}
