package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teniee/mita-budget-engine/internal/data"
	"github.com/teniee/mita-budget-engine/internal/generator"
	"github.com/teniee/mita-budget-engine/internal/ui"
	"github.com/teniee/mita-budget-engine/internal/utils"
)

var (
	seedUsers  int
	seedMonths int
	seedSeed   uint64
	seedMonth  string
	seedDay    int
	seedWipe   bool
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with synthetic users and spending data",
	Long: `Create synthetic users with realistic spending histories and a daily
plan for the target month.

Each user gets:
- An income tier and (usually) a behavioral profile
- Months of transaction history with weekend, payday, month-end and
  holiday structure the pattern learner can recover
- A daily plan for the target month with spending recorded up to the
  current day, including a configurable share of overspent days

Boost factors, noise, and overspend rates are in internal/config/defaults.go
under seed.*, overridable via mita.yaml.

Examples:
  mita seed --db "user:pass@tcp(localhost:3306)/mita"
  mita seed --users 100 --months 12 --seed 42 --db "..."
  mita seed --wipe --month 2025-06 --day 15 --db "..."`,
	Run: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedUsers, "users", 0, "number of users to create (default from config)")
	seedCmd.Flags().IntVar(&seedMonths, "months", 0, "months of history per user (default from config)")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0, "random seed for reproducibility (0 = random)")
	seedCmd.Flags().StringVar(&seedMonth, "month", "", "target plan month as YYYY-MM (default: current month)")
	seedCmd.Flags().IntVar(&seedDay, "day", 0, "current day within the target month (default: today)")
	seedCmd.Flags().BoolVar(&seedWipe, "wipe", false, "delete all existing data first")
}

func runSeed(cmd *cobra.Command, args []string) {
	u := newUI()
	ctx := context.Background()

	month, err := parseMonthFlag(seedMonth)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	day := resolveDay(seedDay, month)
	if day < 1 || day > month.Days() {
		fmt.Fprintln(os.Stderr, u.Error(fmt.Sprintf("day %d outside %s", day, month)))
		os.Exit(1)
	}

	eng, err := openEngine(ctx, u)
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}
	defer eng.Close()

	seedCfg := eng.cfg.Seed
	if seedUsers > 0 {
		seedCfg.Users = seedUsers
	}
	if seedMonths > 0 {
		seedCfg.Months = seedMonths
	}
	if seedSeed != 0 {
		seedCfg.Seed = seedSeed
	}

	rng := utils.NewRandom(seedCfg.Seed)

	fmt.Println()
	fmt.Println(u.Header("MITA Synthetic Data Seeder"))
	fmt.Println()
	fmt.Println(u.KeyValue("Users", fmt.Sprintf("%d", seedCfg.Users)))
	fmt.Println(u.KeyValue("History", fmt.Sprintf("%d months", seedCfg.Months)))
	fmt.Println(u.KeyValue("Plan Month", fmt.Sprintf("%s (day %d)", month, day)))
	fmt.Println(u.KeyValue("Seed", fmt.Sprintf("%d", rng.Seed())))
	if seedWipe {
		fmt.Println(u.KeyValue("Wipe", "all existing data"))
	}
	fmt.Println()

	if seedWipe {
		spin := u.NewSpinner("Wiping existing data")
		spin.Start()
		if err := eng.queries.WipeAll(ctx); err != nil {
			spin.Error(err.Error())
			os.Exit(1)
		}
		spin.Success("done")
	}

	rules, err := data.Default()
	if err != nil {
		fmt.Fprintln(os.Stderr, u.Error(err.Error()))
		os.Exit(1)
	}

	profileGen := generator.NewProfileGenerator(rng.Fork())
	historyGen := generator.NewHistoryGenerator(rng.Fork(), rules, seedCfg)
	planGen := generator.NewPlanGenerator(rng.Fork(), historyGen, seedCfg)

	start := time.Now()
	var totalTxns, totalPlanRows int64

	bar := u.NewProgressBar("Seeding users", int64(seedCfg.Users))
	for i := 0; i < seedCfg.Users; i++ {
		userID, err := eng.queries.CreateUser(ctx, profileGen.Tier())
		if err != nil {
			bar.Fail(err)
			os.Exit(1)
		}

		if behavior := profileGen.Behavior(); behavior != nil {
			if err := eng.queries.UpsertBehaviorProfile(ctx, userID, *behavior); err != nil {
				bar.Fail(err)
				os.Exit(1)
			}
		}

		history := historyGen.History(userID, month, seedCfg.Months)
		inserted, err := eng.queries.InsertTransactionBatch(ctx, userID, history)
		if err != nil {
			bar.Fail(err)
			os.Exit(1)
		}
		totalTxns += inserted

		plan := planGen.Plan(month, day)
		if err := eng.queries.ReplaceMonthPlan(ctx, userID, month, plan); err != nil {
			bar.Fail(err)
			os.Exit(1)
		}
		totalPlanRows += int64(len(plan))

		bar.Update(int64(i + 1))
	}
	bar.Complete()

	printSeedSummary(u, seedCfg.Users, totalTxns, totalPlanRows, time.Since(start))
}

func printSeedSummary(u *ui.UI, users int, txns, planRows int64, elapsed time.Duration) {
	items := []ui.KV{
		{Key: "Users", Value: fmt.Sprintf("%d", users)},
		{Key: "Transactions", Value: fmt.Sprintf("%d", txns)},
		{Key: "Plan Rows", Value: fmt.Sprintf("%d", planRows)},
		{Key: "Duration", Value: elapsed.Round(time.Millisecond).String()},
		{Key: "Status", Value: "Success"},
	}
	fmt.Println(u.SummaryBox("Seed Complete", items))
}
