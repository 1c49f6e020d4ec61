package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initService(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		records, err := e.Service.History().ListRecent(ctx, historyLimit)
		if err != nil {
			return eris.Wrap(err, "list history")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "maximum rows")
	rootCmd.AddCommand(historyCmd)
}
