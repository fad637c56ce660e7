package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/teniee/mita-budget-engine/internal/utils"
)

var (
	adjustUser int64
	adjustDate string
	adjustBase float64
	adjustJSON bool
)

// adjustCmd represents the adjust command
var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Adjust a day's budget using the learned pattern",
	Long: `Compute the pattern-adjusted budget for one user and one calendar
date, with the factors that moved it.

The base budget defaults to the stored plan limit for that day; pass
--base to adjust an arbitrary amount instead. A user without enough
history gets the neutral multiplier at reduced confidence.

Examples:
  mita adjust --user 3 --db "..."
  mita adjust --user 3 --date 2025-06-14
  mita adjust --user 3 --date 2025-06-14 --base 40 --json`,
	Run: runAdjust,
}

func init() {
	rootCmd.AddCommand(adjustCmd)

	adjustCmd.Flags().Int64Var(&adjustUser, "user", 0, "user ID to adjust for")
	adjustCmd.Flags().StringVar(&adjustDate, "date", "", "target date as YYYY-MM-DD (default: today)")
	adjustCmd.Flags().Float64Var(&adjustBase, "base", 0, "base daily budget (default: the day's plan limit)")
	adjustCmd.Flags().BoolVar(&adjustJSON, "json", false, "print the result as JSON")
}

func runAdjust(cmd *cobra.Command, args []string) {
	u := newUI()
	ctx := context.Background()

	if adjustUser <= 0 {
		fmt.Fprintln(os.Stderr, u.Error("pass --user N"))
		os.Exit(1)
	}

	date, err := parseDateFlag(adjustDate)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	eng, err := openEngine(ctx, u)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	defer eng.Close()

	res, err := eng.planner.DailyBudget(ctx, adjustUser, date, adjustBase)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	if adjustJSON {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, u.Error(err.Error()))
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	currency := eng.cfg.Currency

	fmt.Println()
	fmt.Println(u.Header(fmt.Sprintf("Daily Budget: user %d", adjustUser)))
	fmt.Println()
	fmt.Println(u.KeyValue("Date", res.Date.Format("Monday, 2 Jan 2006")))
	fmt.Println(u.KeyValue("Base", utils.FormatAmount(currency, res.BaseDailyBudget)))
	fmt.Println(u.KeyValue("Adjusted", utils.FormatAmount(currency, res.AdjustedDailyBudget)))
	fmt.Println(u.KeyValue("Multiplier", fmt.Sprintf("%.3fx", res.Multiplier)))
	fmt.Println(u.KeyValue("Confidence", fmt.Sprintf("%.0f%%", res.Confidence*100)))
	fmt.Println(u.KeyValue("Reason", res.PrimaryReason))

	if len(res.FactorBreakdown) > 0 {
		factors := make([]string, 0, len(res.FactorBreakdown))
		for f := range res.FactorBreakdown {
			factors = append(factors, f)
		}
		sort.Strings(factors)

		rows := make([][]string, 0, len(factors))
		for _, f := range factors {
			rows = append(rows, []string{f, fmt.Sprintf("%.2fx", res.FactorBreakdown[f])})
		}
		u.Section("Applied Factors")
		fmt.Print(u.Table([]string{"Factor", "Multiplier"}, rows))
	}

	if len(res.ContributingFactors) > 0 {
		fmt.Println()
		for _, f := range res.ContributingFactors {
			fmt.Println(u.Muted("  • " + f))
		}
	}
}
