package main

import (
	"fmt"

	"github.com/dom/league-rest-explorer/internal/preferences"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Show or set the saved color theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	prefs, err := preferences.NewStore(prefsDir)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		theme, err := prefs.Theme()
		if err != nil {
			logger.Warn("failed to read preferences", zap.String("path", prefs.Path()), zap.Error(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme)
		return nil
	}

	theme, err := preferences.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := prefs.SetTheme(theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "theme set to %s\n", theme)
	return nil
}
