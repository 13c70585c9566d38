package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tdup/chunk"
	"github.com/gnolang/tdup/formatter"
	"github.com/gnolang/tdup/internal"
	tt "github.com/gnolang/tdup/internal/types"
)

var (
	ignorePaths    string
	policyName     string
	sourceLanguage string
	jsonOutput     bool
	outPath        string
)

var statementsCmd = &cobra.Command{
	Use:   "statements [paths...]",
	Short: "Split files into statements",
	Long: `Lexes every supported file and groups its tokens into statements.
Use "-" as the only path to read a single source from stdin (see --lang).`,
	Aliases: []string{"st"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("please provide file or directory paths")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		engine, err := newEngine()
		if err != nil {
			logger.Error("Failed to initialize engine", zap.Error(err))
			return err
		}

		var reports []tt.FileReport
		if len(args) == 1 && args[0] == "-" {
			src, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			report, err := chunk.ProcessSource(engine, sourceLanguage, src)
			if err != nil {
				return err
			}
			report.Filename = "<stdin>"
			reports = append(reports, report)
		} else {
			reports, err = chunk.ProcessFiles(ctx, logger, engine, args, chunk.ProcessFile)
			if err != nil && ctx.Err() != nil {
				return fmt.Errorf("statements: %w", ctx.Err())
			}
		}

		if printErr := printReports(cmd.OutOrStdout(), reports, jsonOutput, outPath); printErr != nil {
			return printErr
		}
		return err
	},
}

func init() {
	addStatementsFlags(statementsCmd)
}

// addStatementsFlags registers the statements options on cmd. The root
// command carries them too so that "tdup [paths...]" accepts them.
func addStatementsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	cmd.Flags().StringVar(&policyName, "policy", "", "Unmatched token policy (strict or skip), overrides the configuration")
	cmd.Flags().StringVar(&sourceLanguage, "lang", "go", "Language of the source read from stdin")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output statements in JSON format")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

// newEngine loads the configuration file and applies the command line
// overrides.
func newEngine() (*internal.Engine, error) {
	config, err := chunk.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if policyName != "" {
		config.Policy = policyName
	}

	engine, err := chunk.NewWithConfig(".", config, cfgFile, logger)
	if err != nil {
		return nil, err
	}

	if ignorePaths != "" {
		for _, path := range strings.Split(ignorePaths, ",") {
			engine.IgnorePath(strings.TrimSpace(path))
		}
	}
	return engine, nil
}

func printReports(w io.Writer, reports []tt.FileReport, isJson bool, jsonPath string) error {
	if isJson {
		d, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling reports to JSON: %w", err)
		}
		if jsonPath == "" {
			_, err = fmt.Fprintln(w, string(d))
			return err
		}
		return os.WriteFile(jsonPath, d, 0o644)
	}

	for _, report := range reports {
		fmt.Fprint(w, formatter.FormatStatements(report))
		if len(report.Unmatched) == 0 {
			continue
		}
		source, err := internal.ReadSourceCode(report.Filename)
		if err != nil {
			logger.Warn("Error reading source file", zap.String("file", report.Filename), zap.Error(err))
		}
		fmt.Fprint(w, formatter.FormatUnmatched(report, source))
	}
	return nil
}
