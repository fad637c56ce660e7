package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teniee/mita-budget-engine/internal/database"
	"github.com/teniee/mita-budget-engine/internal/models"
	"github.com/teniee/mita-budget-engine/internal/rebalance"
	"github.com/teniee/mita-budget-engine/internal/service"
	"github.com/teniee/mita-budget-engine/internal/ui"
	"github.com/teniee/mita-budget-engine/internal/utils"
)

var (
	rebalanceUser    int64
	rebalanceMonth   string
	rebalanceDay     int
	rebalanceApply   bool
	rebalanceHistory bool
	rebalanceJSON    bool
)

// rebalanceCmd represents the rebalance command
var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Propose or apply budget moves across the rest of the month",
	Long: `Analyze a user's month and propose bounded budget moves across the
remaining days: surpluses flow toward weekends and Fridays, deficits
trim every remaining day. Proposals are scaled to the user's income
tier and behavioral profile before anything is shown.

By default this is a dry run. Pass --apply to persist the surviving
moves; each applied batch is logged and visible under --history.

Examples:
  mita rebalance --user 3 --db "..."
  mita rebalance --user 3 --month 2025-06 --day 15 --apply
  mita rebalance --user 3 --history`,
	Run: runRebalance,
}

func init() {
	rootCmd.AddCommand(rebalanceCmd)

	rebalanceCmd.Flags().Int64Var(&rebalanceUser, "user", 0, "user ID to rebalance")
	rebalanceCmd.Flags().StringVar(&rebalanceMonth, "month", "", "target month as YYYY-MM (default: current month)")
	rebalanceCmd.Flags().IntVar(&rebalanceDay, "day", 0, "current day within the month (default: today)")
	rebalanceCmd.Flags().BoolVar(&rebalanceApply, "apply", false, "persist the surviving moves")
	rebalanceCmd.Flags().BoolVar(&rebalanceHistory, "history", false, "show applied rebalance batches instead")
	rebalanceCmd.Flags().BoolVar(&rebalanceJSON, "json", false, "print the proposal as JSON")
}

func runRebalance(cmd *cobra.Command, args []string) {
	u := newUI()
	ctx := context.Background()

	if rebalanceUser <= 0 {
		fmt.Fprintln(os.Stderr, u.Error("pass --user N"))
		os.Exit(1)
	}

	month, err := parseMonthFlag(rebalanceMonth)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	day := resolveDay(rebalanceDay, month)

	eng, err := openEngine(ctx, u)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	defer eng.Close()

	if rebalanceHistory {
		printRebalanceHistory(ctx, u, eng, month)
		return
	}

	var (
		proposal *service.Proposal
		receipt  *database.RebalanceReceipt
	)
	if rebalanceApply {
		proposal, receipt, err = eng.planner.ApplyRebalance(ctx, rebalanceUser, month, day)
	} else {
		proposal, err = eng.planner.ProposeRebalance(ctx, rebalanceUser, month, day)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	if rebalanceJSON {
		out, err := json.MarshalIndent(struct {
			*service.Proposal
			Receipt *database.RebalanceReceipt `json:"receipt,omitempty"`
		}{proposal, receipt}, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, u.Error(err.Error()))
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	currency := eng.cfg.Currency
	analysis := proposal.Analysis

	fmt.Println()
	fmt.Println(u.Header(fmt.Sprintf("Rebalance: user %d", rebalanceUser)))
	fmt.Println()
	fmt.Println(u.KeyValue("Month", fmt.Sprintf("%s (day %d of %d)", analysis.Month, analysis.CurrentDay, analysis.Month.Days())))
	fmt.Println(u.KeyValue("Tier", string(proposal.Tier)))
	fmt.Println(u.KeyValue("Surplus", utils.FormatSigned(currency, analysis.CurrentSurplus)))

	if len(proposal.Opportunities) == 0 {
		fmt.Println()
		fmt.Println(u.Success("No moves worth making; the plan stays as it is."))
		return
	}

	rows := make([][]string, 0, len(proposal.Opportunities))
	for _, o := range proposal.Opportunities {
		rows = append(rows, []string{
			analysis.Month.DateOf(o.Day).Format("Mon 2"),
			moveLabel(o.Type),
			utils.FormatSigned(currency, o.Amount),
			fmt.Sprintf("%.1f", o.Priority),
			o.Reason,
		})
	}
	u.Section("Proposed Moves")
	fmt.Print(u.Table([]string{"Day", "Move", "Amount", "Priority", "Reason"}, rows))

	if receipt != nil {
		fmt.Println(u.SummaryBox("Rebalance Applied", []ui.KV{
			{Key: "Batch", Value: receipt.BatchID},
			{Key: "Applied", Value: fmt.Sprintf("%d moves", receipt.Applied)},
			{Key: "Skipped", Value: fmt.Sprintf("%d", receipt.Skipped)},
			{Key: "Net Shift", Value: utils.FormatSigned(currency, receipt.TotalShifted)},
			{Key: "Status", Value: "Success"},
		}))
	} else {
		fmt.Println()
		fmt.Println(u.Muted("  Dry run; pass --apply to persist these moves."))
	}
}

func moveLabel(t rebalance.OpportunityType) string {
	if t == rebalance.DecreaseBudget {
		return "decrease"
	}
	return "increase"
}

func printRebalanceHistory(ctx context.Context, u *ui.UI, eng *engine, month models.PlanMonth) {
	entries, err := eng.queries.RebalanceHistory(ctx, rebalanceUser, month)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	if rebalanceJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, u.Error(err.Error()))
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println()
	fmt.Println(u.Header(fmt.Sprintf("Rebalance History: user %d, %s", rebalanceUser, month)))
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println(u.Muted("  No rebalances applied this month."))
		return
	}

	currency := eng.cfg.Currency
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Format("2006-01-02 15:04"),
			shortBatchID(e.BatchID),
			fmt.Sprintf("%d", e.Day),
			utils.FormatSigned(currency, e.Amount),
			e.Reason,
		})
	}
	fmt.Println(u.Table([]string{"Applied", "Batch", "Day", "Shift", "Reason"}, rows))
}

// shortBatchID abbreviates a batch UUID the way git abbreviates hashes.
func shortBatchID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
