package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/metro-proximity/internal/jurisdiction"
	"github.com/sells-group/metro-proximity/internal/region"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List loaded metro regions",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := region.NewManager(cfg.Data.ShapefilePath, cfg.Data.TargetListPath)
		store, err := manager.EnsureLoaded()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tSTATE\tEXCLUDED\tCENTROID")
		for _, c := range store.Centroids() {
			state := jurisdiction.Extract(c.Name)
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%.4f,%.4f\n",
				c.Code, c.Name, state, jurisdiction.IsExcluded(state), c.Lat, c.Lon)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d regions loaded\n", store.Count())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}
