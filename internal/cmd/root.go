package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose bool
	noColor bool
	cfgFile string
	dbDSN   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mita",
	Short: "Adaptive budget engine with temporal pattern learning",
	Long: `MITA learns each user's spending rhythm from transaction history and
keeps monthly budgets on track.

It adjusts daily limits for weekends, paydays, month-end and holiday
windows, detects when a month has drifted off plan, and redistributes
surplus or recovers overspending across the remaining days within each
user's income tier and behavioral constraints.

Configuration comes from mita.yaml (or --config), MITA_* environment
variables, and flags; policy defaults are in internal/config/defaults.go.

Example usage:
  mita seed --db "user:pass@tcp(localhost:3306)/mita" --users 50
  mita analyze --user 3
  mita rebalance --user 3 --apply`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors and animations")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./mita.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "", "database connection string (overrides config)")

	// Silence usage on error - we'll print our own messages
	rootCmd.SilenceUsage = true

	// Set version template
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// initConfig wires the config file and MITA_* environment variables into
// viper before any command runs
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mita")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/mita")
	}

	viper.SetEnvPrefix("MITA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; defaults and flags cover everything
	_ = viper.ReadInConfig()
}

// Verbose returns whether verbose mode is enabled
func Verbose() bool {
	return verbose
}

// Exit with code
func Exit(code int) {
	os.Exit(code)
}
