package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teniee/mita-budget-engine/internal/advice"
	"github.com/teniee/mita-budget-engine/internal/rebalance"
	"github.com/teniee/mita-budget-engine/internal/utils"
)

var (
	analyzeUser  int64
	analyzeMonth string
	analyzeDay   int
	analyzeJSON  bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a month's plan performance",
	Long: `Summarize how a user's month is tracking against its daily plan:
totals, adherence, surplus or deficit, and the category mix.

Only days strictly before the current day count as completed; the
current day is still in flight.

Examples:
  mita analyze --user 3 --db "..."
  mita analyze --user 3 --month 2025-06 --day 15
  mita analyze --user 3 --json`,
	Run: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Int64Var(&analyzeUser, "user", 0, "user ID to analyze")
	analyzeCmd.Flags().StringVar(&analyzeMonth, "month", "", "target month as YYYY-MM (default: current month)")
	analyzeCmd.Flags().IntVar(&analyzeDay, "day", 0, "current day within the month (default: today)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the analysis as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	u := newUI()
	ctx := context.Background()

	if analyzeUser <= 0 {
		fmt.Fprintln(os.Stderr, u.Error("pass --user N"))
		os.Exit(1)
	}

	month, err := parseMonthFlag(analyzeMonth)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	day := resolveDay(analyzeDay, month)

	eng, err := openEngine(ctx, u)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	defer eng.Close()

	analysis, err := eng.planner.MonthAnalysis(ctx, analyzeUser, month, day)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	categories, err := eng.planner.CategorySummary(ctx, analyzeUser, month)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	if analyzeJSON {
		out, err := json.MarshalIndent(struct {
			Analysis   *rebalance.CalendarAnalysis `json:"analysis"`
			Categories []advice.CategoryShare      `json:"categories"`
		}{analysis, categories}, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, u.Error(err.Error()))
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	currency := eng.cfg.Currency

	fmt.Println()
	fmt.Println(u.Header(fmt.Sprintf("Month Analysis: user %d", analyzeUser)))
	fmt.Println()
	fmt.Println(u.KeyValue("Month", fmt.Sprintf("%s (day %d of %d)", analysis.Month, analysis.CurrentDay, analysis.Month.Days())))
	fmt.Println(u.KeyValue("Analyzed", fmt.Sprintf("%d days, %d remaining", analysis.DaysAnalyzed, analysis.RemainingDays)))
	fmt.Println(u.KeyValue("Budgeted", utils.FormatAmount(currency, analysis.TotalBudgeted)))
	fmt.Println(u.KeyValue("Spent", fmt.Sprintf("%s (%.0f%% of budget)", utils.FormatAmount(currency, analysis.TotalSpent), analysis.SpendingRatio*100)))
	fmt.Println(u.KeyValue("Adherence", fmt.Sprintf("%.0f%% of days on plan", analysis.BudgetAdherenceRate*100)))
	fmt.Println(u.KeyValue("Over/Under", fmt.Sprintf("%d overspent, %d underspent", analysis.OverspentDays, analysis.UnderspentDays)))
	fmt.Println(u.KeyValue("Surplus", utils.FormatSigned(currency, analysis.CurrentSurplus)))
	fmt.Println()

	if analysis.NeedsRedistribution {
		if analysis.CurrentSurplus > 0 {
			fmt.Println(u.Warning("Unspent budget is piling up; `mita rebalance` can move it to the days ahead."))
		} else {
			fmt.Println(u.Warning("The month is running a deficit; `mita rebalance` can trim the days ahead."))
		}
	} else {
		fmt.Println(u.Success("The month is tracking close to plan."))
	}

	if len(categories) > 0 {
		rows := make([][]string, 0, len(categories))
		for _, c := range categories {
			rows = append(rows, []string{
				string(c.Category),
				utils.FormatAmount(currency, c.Total),
				fmt.Sprintf("%.0f%%", c.Share*100),
				fmt.Sprintf("%d", c.Count),
			})
		}
		u.Section("Spending by Category")
		fmt.Print(u.Table([]string{"Category", "Total", "Share", "Txns"}, rows))
	}
}
