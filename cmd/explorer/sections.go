package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the dashboard sections in step order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tSECTION\tCONSTRAINT\tTITLE")
		for _, s := range domain.Sections() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Step, s.ID, s.Constraint, s.Title)
		}
		return w.Flush()
	},
}
