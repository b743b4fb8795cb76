package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"finance/internal/config"
	"finance/internal/finerr"
	"finance/internal/ledger"
	"finance/internal/logger"
	"finance/internal/money"
)

var version = "1.0.0"

var appConfig = config.Default()

var rootCmd = &cobra.Command{
	Use:   "finance",
	Short: "Finance CLI - invoices, debts, advances and workshop settlements",
	Long: `Finance CLI runs the bookkeeping core of a small workshop business on JSON records.

It derives invoice totals, posts invoices into debts, advances and fund movements,
pays down debts and advances, settles workshop balances across employees and
summarises the ledger of a customer or employee.

Records are read from JSON files and the updated records are printed, either as
a console report or, with --json, as JSON ready to be stored by the caller.
Monetary input is written as decimal strings in the configured currency.

Environment variables (or .env):
  CURRENCY_CODE, CURRENCY_DIGITS     - currency of all amounts (default DZD, 2)
  TIMEZONE                           - location calendar days are counted in
  BUSINESS_DAY_ANCHOR_HOUR           - hour work entries are recorded at (default 8)
  RELIABILITY_DUE_DAYS               - payment term for reliability scores (default 30)
  LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT  - logging`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetConfig makes cfg available to every subcommand.
func SetConfig(cfg *config.Config) {
	if cfg != nil {
		appConfig = cfg
	}
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		printError(err)
		os.Exit(1)
	}
}

// printError writes err to stderr, one line per field for validation errors.
func printError(err error) {
	var verrs *finerr.ValidationErrors
	if errors.As(err, &verrs) {
		fmt.Fprintln(os.Stderr, "Error: the input is invalid:")
		for _, fe := range verrs.Fields {
			fmt.Fprintf(os.Stderr, "  - %s: %s\n", fe.Field, fe.Message)
		}
		return
	}

	var mismatch *finerr.MismatchError
	if errors.As(err, &mismatch) {
		cur := appConfig.Currency()
		if s := mismatch.Shortfall(); s > 0 {
			fmt.Fprintf(os.Stderr, "Error: the splits are %s short of the settlement amount\n", cur.FormatWithCode(money.Amount(s)))
		} else {
			fmt.Fprintf(os.Stderr, "Error: the splits exceed the settlement amount by %s\n", cur.FormatWithCode(money.Amount(mismatch.Excess())))
		}
		return
	}

	if errors.Is(err, finerr.ErrDataIntegrity) {
		fmt.Fprintf(os.Stderr, "Error: stored data is inconsistent, fix the record before retrying: %v\n", err)
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// readJSONFile decodes the JSON file at path into v.
func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func printJSON(v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	fmt.Println(string(jsonData))
	return nil
}

func printBanner(title string) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%*s\n", (80+len(title))/2, title)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// parseAmountFlag reads a decimal amount flag in the configured currency.
func parseAmountFlag(cmd *cobra.Command, name string) (money.Amount, error) {
	raw, _ := cmd.Flags().GetString(name)
	a, err := appConfig.Currency().Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return a, nil
}

// parseDate reads a YYYY-MM-DD date in the configured location. An empty string means now.
func parseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), appConfig.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return t, nil
}

// paymentTime dates a payment entered as a calendar day. A payment on the day the entry was
// opened is placed at the opening time so it is never earlier than the entry itself.
func paymentTime(raw string, opened time.Time) (time.Time, error) {
	at, err := parseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	if at.Before(opened) && ledger.CalendarDays(at, opened, appConfig.Location()) == 0 {
		return opened, nil
	}
	return at, nil
}
