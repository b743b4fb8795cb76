package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"finance/internal/invoice"
	"finance/internal/logger"
	"finance/internal/money"
	"finance/internal/payment"
	"finance/pkg/models"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice [form.json]",
	Short: "Validate an invoice form and derive its totals",
	Long: `Read an invoice form as submitted by the entry screen, validate every field and
derive the gross total and, for BREAKAGE invoices, the amount left after the
first payment.

All violations are reported at once, one line per field. With --post the invoice
is also posted: the debt or advance it opens and the cash it moves are derived,
and the cash movement is applied to a fund holding --fund-balance.

The form is a JSON object with string values, for example:
  {
    "category": "PRODUCTS",
    "direction": "INCOME",
    "lineItems": [{"itemId": "bread", "quantity": "3", "unitPrice": "100"}],
    "discount": "20",
    "paymentState": "BREAKAGE",
    "firstPayment": "100",
    "customerId": "cust-7"
  }`,
	Example: `  # Check a form and print its totals
  finance invoice form.json

  # Create and post the invoice against a fund holding 1500.00, as JSON
  finance invoice form.json --post --fund-balance 1500 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoice,
}

// InvoiceOutput is the JSON output of the invoice command.
type InvoiceOutput struct {
	Invoice models.Invoice   `json:"invoice"`
	Posting *payment.Posting `json:"posting,omitempty"`
	Fund    *models.Fund     `json:"fund,omitempty"`
}

func init() {
	rootCmd.AddCommand(invoiceCmd)

	invoiceCmd.Flags().Bool("post", false, "Post the invoice: derive its debt, advance and cash movement")
	invoiceCmd.Flags().String("fund", "cash", "Fund ID the cash movement is applied to")
	invoiceCmd.Flags().String("fund-balance", "0", "Current balance of the fund")
	invoiceCmd.Flags().Bool("json", false, "Output as JSON format")
}

func runInvoice(cmd *cobra.Command, args []string) error {
	const op = "runInvoice"
	log := logger.WithCommand("invoice")

	post, _ := cmd.Flags().GetBool("post")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	formPath := args[0]

	log.Info().
		Str("file", formPath).
		Bool("post", post).
		Msg("Processing invoice form")

	var form invoice.RawForm
	if err := readJSONFile(formPath, &form); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	cur := appConfig.Currency()
	in, err := invoice.ParseForm(form, cur)
	if err != nil {
		log.Warn().Err(err).Str("file", formPath).Msg("Invoice form rejected")
		return err
	}

	inv, err := invoice.NewCalculator().Create(in)
	if err != nil {
		return err
	}
	output := InvoiceOutput{Invoice: inv}

	if post {
		fundID, _ := cmd.Flags().GetString("fund")
		balance, err := parseAmountFlag(cmd, "fund-balance")
		if err != nil {
			return err
		}

		posting, fund, err := payment.NewPoster().Post(inv, models.Fund{ID: fundID, Balance: balance})
		if err != nil {
			return err
		}
		output.Posting = &posting
		output.Fund = &fund
	}

	if jsonOutput {
		return printJSON(output)
	}
	printInvoiceConsole(output, cur)
	return nil
}

func printInvoiceConsole(out InvoiceOutput, cur money.Currency) {
	inv := out.Invoice

	printBanner("INVOICE")
	fmt.Printf("ID: %s\n", inv.ID)
	fmt.Printf("Category: %s (%s)\n", inv.Category, strings.ToLower(string(inv.Direction)))
	if owner, ok := inv.Counterpart(); ok {
		fmt.Printf("Counterpart: %s %s\n", owner.Kind, owner.ID)
	}

	if len(inv.LineItems) > 0 {
		fmt.Println()
		fmt.Println("=== LINE ITEMS ===")
		for _, item := range inv.LineItems {
			// totals were computed before printing, so the line fits
			line, _ := money.MulDecimal(item.UnitPrice, item.Quantity)
			fmt.Printf("  %-20s %10s %-6s x %12s = %14s\n",
				item.ItemID, item.Quantity.String(), item.Unit, cur.Format(item.UnitPrice), cur.Format(line))
		}
		if inv.Discount != 0 {
			fmt.Printf("  Discount: -%s\n", cur.Format(inv.Discount))
		}
		if inv.AdditionalAmount != 0 {
			fmt.Printf("  Additional: +%s\n", cur.Format(inv.AdditionalAmount))
		}
	}

	fmt.Println()
	fmt.Println("=== TOTALS ===")
	fmt.Printf("Gross total: %s\n", cur.FormatWithCode(inv.GrossTotal))
	fmt.Printf("Payment state: %s\n", inv.PaymentState)
	if inv.RemainingAfterFirstPayment != nil {
		fmt.Printf("First payment: %s\n", cur.FormatWithCode(inv.FirstPayment))
		fmt.Printf("Remaining: %s\n", cur.FormatWithCode(*inv.RemainingAfterFirstPayment))
	}

	if out.Posting != nil {
		p := out.Posting
		fmt.Println()
		fmt.Println("=== POSTING ===")
		fmt.Printf("Cash movement: %s\n", cur.FormatWithCode(p.CashMovement))
		if out.Fund != nil {
			fmt.Printf("Fund %s balance: %s\n", out.Fund.ID, cur.FormatWithCode(out.Fund.Balance))
		}
		if p.Debt != nil {
			fmt.Printf("Debt opened: %s\n", describeDebt(*p.Debt, cur))
		}
		if p.Advance != nil {
			fmt.Printf("Advance received: %s (%s for customer %s)\n",
				p.Advance.ID, cur.FormatWithCode(p.Advance.Remaining), p.Advance.CustomerID)
		}
	}
	fmt.Println(strings.Repeat("=", 80))
}
