package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tt "github.com/gnolang/tdup/internal/types"
)

var watchJson bool

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-run files under directories whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("please provide directories to watch")
		}

		engine, err := newEngine()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		err = engine.StartWatching(args, func(report tt.FileReport, err error) {
			if err != nil {
				return // logged by the engine
			}
			if perr := printReports(w, []tt.FileReport{report}, watchJson, ""); perr != nil {
				logger.Error("Error printing report", zap.Error(perr))
			}
		})
		if err != nil {
			return err
		}
		defer engine.StopWatching()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Fprintf(cmd.ErrOrStderr(), "watching %v, press Ctrl+C to stop\n", args)
		<-ctx.Done()
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchJson, "json", false, "Output statements in JSON format")
}
