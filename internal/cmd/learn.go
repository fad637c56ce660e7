package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var (
	learnUser  int64
	learnMonth string
	learnAll   bool
	learnJSON  bool
)

// learnCmd represents the learn command
var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Learn a user's temporal spending pattern from history",
	Long: `Learn per-period spending multipliers from a user's transaction
history and print the resulting pattern.

The pattern is derived from the configured trailing window of history
ending with the month before the target month. Multipliers compare each
period's mean spend to the user's overall mean, so 1.00 is neutral.

With --all, patterns are relearned for every user concurrently and the
cache is refreshed in place.

Examples:
  mita learn --user 3 --db "..."
  mita learn --user 3 --month 2025-06 --json
  mita learn --all --db "..."`,
	Run: runLearn,
}

func init() {
	rootCmd.AddCommand(learnCmd)

	learnCmd.Flags().Int64Var(&learnUser, "user", 0, "user ID to learn a pattern for")
	learnCmd.Flags().StringVar(&learnMonth, "month", "", "target month as YYYY-MM (default: current month)")
	learnCmd.Flags().BoolVar(&learnAll, "all", false, "relearn patterns for every user")
	learnCmd.Flags().BoolVar(&learnJSON, "json", false, "print the pattern as JSON")
}

func runLearn(cmd *cobra.Command, args []string) {
	u := newUI()
	ctx := context.Background()

	if !learnAll && learnUser <= 0 {
		fmt.Fprintln(os.Stderr, u.Error("pass --user N or --all"))
		os.Exit(1)
	}

	month, err := parseMonthFlag(learnMonth)
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

	if learnAll {
		start := time.Now()
		spin := u.NewSpinner("Relearning patterns for all users")
		spin.Start()
		learned, err := eng.planner.RefreshPatterns(ctx, month)
		if err != nil {
			spin.Error(err.Error())
			os.Exit(1)
		}
		spin.Success(fmt.Sprintf("%d users with history", learned))
		fmt.Println(u.KeyValue("Month", month.String()))
		fmt.Println(u.KeyValue("Duration", time.Since(start).Round(time.Millisecond).String()))
		return
	}

	pattern, err := eng.planner.Pattern(ctx, learnUser, month)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	if pattern == nil {
		total, err := eng.queries.CountTransactions(ctx, learnUser)
		if err != nil {
			fmt.Fprintln(os.Stderr, u.Error(err.Error()))
			os.Exit(1)
		}
		if total == 0 {
			fmt.Println(u.Warning(fmt.Sprintf("user %d has no transactions on record", learnUser)))
		} else {
			fmt.Println(u.Warning(fmt.Sprintf(
				"user %d has no transactions in the %d months before %s (%d on record overall)",
				learnUser, eng.cfg.Temporal.HistoryMonths, month, total)))
		}
		return
	}

	if learnJSON {
		out, err := json.MarshalIndent(pattern, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, u.Error(err.Error()))
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println()
	fmt.Println(u.Header(fmt.Sprintf("Spending Pattern: user %d", learnUser)))
	fmt.Println()
	fmt.Println(u.KeyValue("Month", month.String()))
	fmt.Println(u.KeyValue("Samples", fmt.Sprintf("%d transactions", pattern.SampleCount)))
	fmt.Println(u.KeyValue("Confidence", fmt.Sprintf("%.0f%%", pattern.Confidence*100)))

	var weekdayRows [][]string
	for w := 1; w <= 7; w++ {
		weekdayRows = append(weekdayRows, []string{
			time.Weekday(w % 7).String(),
			fmt.Sprintf("%.2fx", pattern.DayOfWeekMultiplier(w)),
		})
	}
	u.Section("Day of Week")
	fmt.Print(u.Table([]string{"Day", "Multiplier"}, weekdayRows))

	effectRows := [][]string{
		{"Weekend vs weekday", fmt.Sprintf("%.2fx", pattern.WeekendEffect)},
		{"Month-end vs rest", fmt.Sprintf("%.2fx", pattern.MonthEndEffect)},
		{"Payday window vs rest", fmt.Sprintf("%.2fx", pattern.PaydayEffect)},
	}
	u.Section("Contrast Effects")
	fmt.Print(u.Table([]string{"Effect", "Multiplier"}, effectRows))

	if rows := multiplierRows(pattern.Holiday); len(rows) > 0 {
		u.Section("Holiday Windows")
		fmt.Print(u.Table([]string{"Window", "Multiplier"}, rows))
	}
	if rows := multiplierRows(pattern.Seasonal); len(rows) > 0 {
		u.Section("Seasons")
		fmt.Print(u.Table([]string{"Season", "Multiplier"}, rows))
	}
}

// multiplierRows flattens a named multiplier map into sorted table rows.
func multiplierRows(m map[string]float64) [][]string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, fmt.Sprintf("%.2fx", m[name])})
	}
	return rows
}
