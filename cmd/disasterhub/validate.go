package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a catalog without starting anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "catalog ok: %d pages, %d periods, %d markers\n",
			len(cat.Navigation), len(cat.TimeSeries), len(cat.Markers))
		return nil
	},
}
