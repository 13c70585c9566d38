package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/tdup/formatter"
)

var tokensJson bool

var tokensCmd = &cobra.Command{
	Use:   "tokens [files...]",
	Short: "Print the tokens of files, before statement chunking",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("please provide file paths")
		}

		engine, err := newEngine()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, filename := range args {
			toks, err := engine.Tokens(filename)
			if err != nil {
				return err
			}
			if !tokensJson {
				fmt.Fprint(w, formatter.FormatTokens(filename, toks))
				continue
			}
			d, err := json.Marshal(toks)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(d))
		}
		return nil
	},
}

func init() {
	tokensCmd.Flags().BoolVar(&tokensJson, "json", false, "Output tokens in JSON format")
}
