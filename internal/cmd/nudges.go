package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	nudgesUser int64
	nudgesDate string
	nudgesJSON bool
)

// nudgesCmd represents the nudges command
var nudgesCmd = &cobra.Command{
	Use:   "nudges",
	Short: "Generate advisory nudges for a date",
	Long: `Evaluate the advisory rules against a user's remaining budget for
one date. Rules are independent, so a single day can produce several
nudges: a Friday near month-end with an overspent plan fires the
weekend preview, the month-end urgency, and the overspent alert.

Nudges are presentational only; they never feed back into pattern
learning or redistribution.

Examples:
  mita nudges --user 3 --db "..."
  mita nudges --user 3 --date 2025-06-27 --json`,
	Run: runNudges,
}

func init() {
	rootCmd.AddCommand(nudgesCmd)

	nudgesCmd.Flags().Int64Var(&nudgesUser, "user", 0, "user ID to nudge")
	nudgesCmd.Flags().StringVar(&nudgesDate, "date", "", "target date as YYYY-MM-DD (default: today)")
	nudgesCmd.Flags().BoolVar(&nudgesJSON, "json", false, "print the nudges as JSON")
}

func runNudges(cmd *cobra.Command, args []string) {
	u := newUI()
	ctx := context.Background()

	if nudgesUser <= 0 {
		fmt.Fprintln(os.Stderr, u.Error("pass --user N"))
		os.Exit(1)
	}

	date, err := parseDateFlag(nudgesDate)
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

	nudges, err := eng.planner.Nudges(ctx, nudgesUser, date)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	if nudgesJSON {
		out, err := json.MarshalIndent(nudges, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, u.Error(err.Error()))
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println()
	fmt.Println(u.Header(fmt.Sprintf("Nudges: user %d, %s", nudgesUser, date.Format("Monday, 2 Jan 2006"))))
	fmt.Println()

	if len(nudges) == 0 {
		fmt.Println(u.Muted("  Nothing to say today; the plan speaks for itself."))
		return
	}

	for _, n := range nudges {
		fmt.Println("  " + u.NudgeLine(n))
	}
}
