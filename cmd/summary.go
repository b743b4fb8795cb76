package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"finance/internal/logger"
	"finance/internal/money"
	"finance/internal/summary"
	"finance/pkg/models"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [ledger.json]",
	Short: "Summarise the debts, advances and credits of a customer or employee",
	Long: `Roll the ledger of one customer or employee up into the figures of their
detail view: outstanding and paid amounts, payment ratio, how long debts stay
open and a reliability score.

The reliability score is the share of judged debts that were paid within
RELIABILITY_DUE_DAYS: every paid debt is judged, and an open debt is judged
(as late) once it is older than the term. With nothing to judge the score is 100.

The ledger file holds the stored records:
  {"debts": [...], "advances": [...], "credits": [...]}`,
	Example: `  finance summary ledger.json --owner cust-7
  finance summary ledger.json --owner emp-2 --kind employee --json
  finance summary ledger.json --owner cust-7 --date 2026-03-31`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

// LedgerFile is the input of the summary command.
type LedgerFile struct {
	Debts    []models.Debt           `json:"debts"`
	Advances []models.Advance        `json:"advances"`
	Credits  []models.EmployeeCredit `json:"credits"`
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().String("owner", "", "Customer or employee ID (required)")
	summaryCmd.Flags().String("kind", "customer", "Owner kind (customer or employee)")
	summaryCmd.Flags().String("date", "", "Summarise as of YYYY-MM-DD (default: now)")
	summaryCmd.Flags().Bool("json", false, "Output as JSON format")
	_ = summaryCmd.MarkFlagRequired("owner")
}

func runSummary(cmd *cobra.Command, args []string) error {
	const op = "runSummary"
	log := logger.WithCommand("summary")

	ownerID, _ := cmd.Flags().GetString("owner")
	kind, _ := cmd.Flags().GetString("kind")
	rawDate, _ := cmd.Flags().GetString("date")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	owner := models.Owner{Kind: models.OwnerKind(strings.ToLower(kind)), ID: ownerID}
	if owner.Kind != models.OwnerCustomer && owner.Kind != models.OwnerEmployee {
		return fmt.Errorf("invalid owner kind: %s (must be 'customer' or 'employee')", kind)
	}

	var file LedgerFile
	if err := readJSONFile(args[0], &file); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	now, err := parseDate(rawDate)
	if err != nil {
		return err
	}
	if rawDate != "" {
		// as of the end of that day
		now = now.AddDate(0, 0, 1).Add(-1)
	}

	log.Info().
		Str("owner", ownerID).
		Str("kind", string(owner.Kind)).
		Int("debts", len(file.Debts)).
		Int("advances", len(file.Advances)).
		Int("credits", len(file.Credits)).
		Msg("Aggregating ledger")

	s, err := summary.Aggregate(owner, file.Debts, file.Advances, file.Credits, now, summary.Options{
		Location: appConfig.Location(),
		DueDays:  appConfig.ReliabilityDueDays,
	})
	if err != nil {
		log.Error().Err(err).Str("owner", ownerID).Msg("Ledger cannot be summarised")
		return err
	}

	if jsonOutput {
		return printJSON(s)
	}
	printSummaryConsole(s, appConfig.Currency())
	return nil
}

func printSummaryConsole(s summary.Summary, cur money.Currency) {
	printBanner(strings.ToUpper(string(s.Owner.Kind)) + " SUMMARY")
	label := "Customer"
	if s.Owner.Kind == models.OwnerEmployee {
		label = "Employee"
	}
	fmt.Printf("%s: %s\n", label, s.Owner.ID)
	fmt.Println()

	fmt.Println("=== DEBTS ===")
	fmt.Printf("Total debt: %s\n", cur.FormatWithCode(s.TotalDebt))
	fmt.Printf("Total paid: %s (%.1f%%)\n", cur.FormatWithCode(s.TotalPaid), s.PaymentRatio)
	fmt.Printf("Pending: %s in %d active debts\n", cur.FormatWithCode(s.PendingAmount), s.ActiveDebts)
	fmt.Printf("Settled debts: %d\n", s.SettledDebts)
	if s.SettledDebts > 0 {
		fmt.Printf("Average paid after: %.1f days\n", s.AveragePaidAfterDays)
	}
	if s.ActiveDebts > 0 {
		fmt.Printf("Oldest pending: %d days\n", s.OldestPendingDays)
	}
	fmt.Printf("Reliability: %d/100\n", s.ReliabilityScore)

	if s.PayableAmount != 0 {
		fmt.Printf("Owed to them: %s\n", cur.FormatWithCode(s.PayableAmount))
	}

	switch s.Owner.Kind {
	case models.OwnerCustomer:
		fmt.Println()
		fmt.Println("=== ADVANCES ===")
		fmt.Printf("Advance balance: %s\n", cur.FormatWithCode(s.AdvanceBalance))
	case models.OwnerEmployee:
		fmt.Println()
		fmt.Println("=== SETTLEMENTS ===")
		fmt.Printf("Total credited: %s\n", cur.FormatWithCode(s.TotalCredited))
	}
	fmt.Println(strings.Repeat("=", 80))
}
