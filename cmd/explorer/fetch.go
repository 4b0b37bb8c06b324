package main

import (
	"encoding/json"
	"fmt"

	"github.com/dom/league-rest-explorer/internal/dashboard"
	"github.com/dom/league-rest-explorer/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	fetchAll      bool
	fetchYear     string
	fetchChampion string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [section]",
	Short: "Fetch one section, or every section with --all, and print the views as JSON",
	Long: `Loads sections the same way the dashboard does. A failed load prints the
demo rows with the fallback banner rather than an error.

Example:
  explorer fetch contests --year 2023
  explorer fetch champion-details --champion "Kai'Sa"
  explorer fetch --all`,
	Args: func(cmd *cobra.Command, args []string) error {
		if fetchAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchAll, "all", false, "Fetch every section concurrently")
	fetchCmd.Flags().StringVar(&fetchYear, "year", "", "Season to select")
	fetchCmd.Flags().StringVar(&fetchChampion, "champion", "", "Champion to select")
}

func runFetch(cmd *cobra.Command, args []string) error {
	session := dashboard.NewSession(uuid.New(), newRunners(), logger)
	defer session.Close()

	update := dashboard.SelectionUpdate{}
	if cmd.Flags().Changed("year") {
		update.Year = &fetchYear
	}
	if cmd.Flags().Changed("champion") {
		update.Champion = &fetchChampion
	}
	if err := session.Selection.Apply(update); err != nil {
		return err
	}

	var out any
	if fetchAll {
		out = session.RefreshAll(cmd.Context())
	} else {
		section, err := domain.ParseSection(args[0])
		if err != nil {
			return fmt.Errorf("%w (see \"explorer sections\")", err)
		}
		view, err := session.Fetch(cmd.Context(), section)
		if err != nil {
			return err
		}
		out = view
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
