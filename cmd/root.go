package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tdup/chunk"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	quiet   bool
	debug   bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:              "tdup [paths...]",
	Short:            "tdup - split source files into normalized statements for duplicate detection",
	Args:             cobra.ArbitraryArgs,
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(debug, quiet)
		if err != nil {
			return err
		}
		logger = l
		if quiet {
			chunk.ProgressWriter = nil
		} else {
			chunk.ProgressWriter = cmd.ErrOrStderr()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// Format: tdup [path1 path2 ...] => behaves like the statements subcommand
		statementsCmd.SetContext(cmd.Context())
		return statementsCmd.RunE(statementsCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func newLogger(debug, quiet bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	if quiet {
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return config.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", chunk.DefaultConfigPath, "Configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for a run")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Hide progress and non-error logs")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable development logging")
	addStatementsFlags(rootCmd)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statementsCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(watchCmd)
}
