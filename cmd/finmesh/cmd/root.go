package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/finmesh/internal/config"
)

var (
	cfgFile     string
	logLevel    string
	logFormat   string
	autoApprove bool

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "finmesh",
	Short: "Financial analysis pipeline with LLM-backed research and reporting",
	Long: `finmesh runs a linear financial analysis pipeline over a stock symbol:
it collects quote and news data, produces an analysis and recommendations
with a language model, optionally asks for human approval, and writes a
final investment report. Every step degrades to a rule-based fallback so a
run always completes with a report.

Running 'finmesh' without arguments starts interactive mode.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Default to interactive mode when no subcommand is provided
	RunE: runInteractive,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion records build metadata for the version command.
func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return initConfig()
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: .finmesh.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json",
		"log format (json, text)")
	rootCmd.PersistentFlags().BoolVar(&autoApprove, "auto-approve", false,
		"skip the human approval step")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() error {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}

	// Bind flags to viper (errors are nil when flag exists)
	v := loader.Viper()
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("auto_approve", rootCmd.PersistentFlags().Lookup("auto-approve"))

	loaded, err := loader.Load()
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "finmesh %s (commit %s, built %s)\n", appVersion, appCommit, appDate)
	},
}
