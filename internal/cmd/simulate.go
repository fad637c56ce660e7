package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teniee/mita-budget-engine/internal/ui"
	"github.com/teniee/mita-budget-engine/internal/utils"
)

var (
	simUsers          int
	simMonth          string
	simWorkers        int
	simRebalanceEvery int
	simApply          bool
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a month of engine decisions for seeded users",
	Long: `Replay a month day by day for every seeded user, concurrently:
learn each user's pattern, compute the adjusted budget for every day,
evaluate nudges, and run a rebalance at a fixed cadence.

By default rebalances are dry runs. With --apply the proposed moves are
persisted, so later days in the replay see the shifted limits, the way
the engine behaves in production.

The replay stops cleanly on Ctrl+C and reports what it got through.

Examples:
  mita simulate --db "user:pass@tcp(localhost:3306)/mita"
  mita simulate --month 2025-06 --users 10 --apply
  mita simulate --workers 16 --rebalance-every 7 --db "..."`,
	Run: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntVar(&simUsers, "users", 0, "number of users to replay (0 = all)")
	simulateCmd.Flags().StringVar(&simMonth, "month", "", "month to replay as YYYY-MM (default: current month)")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 8, "concurrent user replays")
	simulateCmd.Flags().IntVar(&simRebalanceEvery, "rebalance-every", 7, "run a rebalance every N days (0 = never)")
	simulateCmd.Flags().BoolVar(&simApply, "apply", false, "persist rebalance moves instead of dry runs")
}

// simResult accumulates one user's replay outcome.
type simResult struct {
	userID    int64
	budgets   int
	base      float64
	adjusted  float64
	proposals int
	applied   int
	shifted   float64
	nudges    int
	err       error
}

func runSimulate(cmd *cobra.Command, args []string) {
	u := newUI()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	month, err := parseMonthFlag(simMonth)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	if simWorkers < 1 {
		fmt.Fprintln(os.Stderr, u.Error("--workers must be at least 1"))
		os.Exit(1)
	}

	eng, err := openEngine(ctx, u)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	defer eng.Close()

	ids, err := eng.queries.ListUserIDs(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, u.Error("no users found; run `mita seed` first"))
		os.Exit(1)
	}
	if simUsers > 0 && len(ids) > simUsers {
		ids = ids[:simUsers]
	}

	days := month.Days()
	rebalanceDays := 0
	if simRebalanceEvery > 0 {
		for day := simRebalanceEvery; day < days; day += simRebalanceEvery {
			rebalanceDays++
		}
	}

	fmt.Println()
	fmt.Println(u.Header("MITA Month Replay"))
	fmt.Println()
	fmt.Println(u.KeyValue("Database", maskDSN(eng.cfg.Database.DSN)))
	fmt.Println(u.KeyValue("Month", fmt.Sprintf("%s (%d days)", month, days)))
	fmt.Println(u.KeyValue("Users", fmt.Sprintf("%d", len(ids))))
	fmt.Println(u.KeyValue("Workers", fmt.Sprintf("%d", simWorkers)))
	if simRebalanceEvery > 0 {
		mode := "dry run"
		if simApply {
			mode = "applied"
		}
		fmt.Println(u.KeyValue("Rebalance", fmt.Sprintf("every %d days (%s)", simRebalanceEvery, mode)))
	} else {
		fmt.Println(u.KeyValue("Rebalance", "disabled"))
	}
	fmt.Println()

	mp := u.NewMultiProgress()
	mp.AddItem("daily budgets", int64(len(ids)*days))
	mp.AddItem("nudges", int64(len(ids)*days))
	if rebalanceDays > 0 {
		mp.AddItem("rebalances", int64(len(ids)*rebalanceDays))
	}
	mp.Render()

	var doneBudgets, doneNudges, doneRebalances atomic.Int64

	start := time.Now()
	results := make([]simResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(simWorkers)
	for i, id := range ids {
		g.Go(func() error {
			res := simResult{userID: id}

			for day := 1; day <= days; day++ {
				if gctx.Err() != nil {
					res.err = gctx.Err()
					break
				}
				date := month.DateOf(day)

				budget, err := eng.planner.DailyBudget(gctx, id, date, 0)
				if err != nil {
					res.err = fmt.Errorf("day %d: %w", day, err)
					break
				}
				res.budgets++
				res.base += budget.BaseDailyBudget
				res.adjusted += budget.AdjustedDailyBudget
				mp.Update("daily budgets", doneBudgets.Add(1))

				nudges, err := eng.planner.Nudges(gctx, id, date)
				if err != nil {
					res.err = fmt.Errorf("day %d: %w", day, err)
					break
				}
				res.nudges += len(nudges)
				mp.Update("nudges", doneNudges.Add(1))

				if simRebalanceEvery > 0 && day%simRebalanceEvery == 0 && day < days {
					if simApply {
						proposal, receipt, err := eng.planner.ApplyRebalance(gctx, id, month, day)
						if err != nil {
							res.err = fmt.Errorf("day %d: %w", day, err)
							break
						}
						res.proposals += len(proposal.Opportunities)
						res.applied += receipt.Applied
						res.shifted += receipt.TotalShifted
					} else {
						proposal, err := eng.planner.ProposeRebalance(gctx, id, month, day)
						if err != nil {
							res.err = fmt.Errorf("day %d: %w", day, err)
							break
						}
						res.proposals += len(proposal.Opportunities)
					}
					mp.Update("rebalances", doneRebalances.Add(1))
				}
			}

			if res.err == nil {
				mp.PrintPlain("  user %-5d %d budgets, %d proposals, %d nudges\n",
					res.userID, res.budgets, res.proposals, res.nudges)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	tally := tallyResults(results)
	if tally.ok == 0 && tally.firstErr != nil {
		mp.Fail("daily budgets", tally.firstErr)
		mp.Fail("nudges", tally.firstErr)
		if rebalanceDays > 0 {
			mp.Fail("rebalances", tally.firstErr)
		}
	} else {
		mp.Complete("daily budgets", fmt.Sprintf("%d computed", doneBudgets.Load()))
		mp.Complete("nudges", fmt.Sprintf("%d evaluations", doneNudges.Load()))
		if rebalanceDays > 0 {
			mp.Complete("rebalances", fmt.Sprintf("%d runs", doneRebalances.Load()))
		}
	}
	mp.Finish()

	if ctx.Err() != nil {
		fmt.Println()
		fmt.Println(u.Warning("Interrupted; partial results below."))
	}

	printSimulateSummary(u, eng, tally, simApply, start)
}

// simTally aggregates replay results across users.
type simTally struct {
	ok       int
	failed   int
	totals   simResult
	firstErr error
}

func tallyResults(results []simResult) simTally {
	var t simTally
	for _, r := range results {
		if r.err != nil {
			t.failed++
			if t.firstErr == nil {
				t.firstErr = fmt.Errorf("user %d: %w", r.userID, r.err)
			}
			continue
		}
		t.ok++
		t.totals.budgets += r.budgets
		t.totals.base += r.base
		t.totals.adjusted += r.adjusted
		t.totals.proposals += r.proposals
		t.totals.applied += r.applied
		t.totals.shifted += r.shifted
		t.totals.nudges += r.nudges
	}
	return t
}

func printSimulateSummary(u *ui.UI, eng *engine, tally simTally, applied bool, start time.Time) {
	totals := tally.totals
	currency := eng.cfg.Currency
	stats := eng.pool.Stats()

	items := []ui.KV{
		{Key: "Users", Value: fmt.Sprintf("%d replayed, %d failed", tally.ok, tally.failed)},
		{Key: "Budgets", Value: fmt.Sprintf("%d days", totals.budgets)},
	}
	if totals.base > 0 {
		items = append(items, ui.KV{
			Key:   "Avg Multiplier",
			Value: fmt.Sprintf("%.3fx (%s planned, %s adjusted)", totals.adjusted/totals.base, utils.FormatAmount(currency, totals.base), utils.FormatAmount(currency, totals.adjusted)),
		})
	}
	items = append(items, ui.KV{Key: "Proposals", Value: fmt.Sprintf("%d moves", totals.proposals)})
	if applied {
		items = append(items, ui.KV{
			Key:   "Applied",
			Value: fmt.Sprintf("%d moves, %s net", totals.applied, utils.FormatSigned(currency, totals.shifted)),
		})
	}
	items = append(items,
		ui.KV{Key: "Nudges", Value: fmt.Sprintf("%d fired", totals.nudges)},
		ui.KV{Key: "Queries", Value: fmt.Sprintf("%d (%d failed, avg %s)", stats.TotalQueries, stats.FailedQueries, stats.AvgLatency.Round(time.Microsecond))},
		ui.KV{Key: "Duration", Value: ui.DurationSince(start)},
	)
	if tally.failed > 0 {
		items = append(items, ui.KV{Key: "Status", Value: "Completed with failures"})
	} else {
		items = append(items, ui.KV{Key: "Status", Value: "Success"})
	}

	fmt.Println(u.SummaryBox("Replay Summary", items))

	if tally.firstErr != nil {
		fmt.Println(u.Warning(tally.firstErr.Error()))
		os.Exit(1)
	}
}
