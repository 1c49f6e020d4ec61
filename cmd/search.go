package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cgr-group/prospect-api/internal/model"
)

var (
	searchSectors  []string
	searchZones    []string
	searchProducts []string
	searchSize     string
	searchCount    int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a one-shot enterprise search from the command line",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initService(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		resp, err := e.Service.SearchEnterprises(ctx, model.EnterpriseSearchRequest{
			Sectors:         searchSectors,
			GeographicZones: searchZones,
			Products:        searchProducts,
			CompanySize:     searchSize,
			ResultCount:     searchCount,
		})
		if err != nil {
			return eris.Wrap(err, "enterprise search")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchSectors, "sector", nil, "target sectors")
	searchCmd.Flags().StringSliceVar(&searchZones, "zone", nil, "geographic zones")
	searchCmd.Flags().StringSliceVar(&searchProducts, "product", nil, "CGR products to place")
	searchCmd.Flags().StringVar(&searchSize, "size", "", "company size (PME, ETI, GE)")
	searchCmd.Flags().IntVar(&searchCount, "count", 0, "number of results (default 10, max 15)")
	rootCmd.AddCommand(searchCmd)
}
