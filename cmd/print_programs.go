package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timvw/tmux-window-name/internal/render"
)

var printProgramsCmd = &cobra.Command{
	Use:   "print-programs",
	Short: "Print the foreground program of each window and the name it maps to",
	Long: `Print the full command line of every program running in the current
session, followed by the name it is shortened to after substitutions and
icons. Use it to write substitute_sets rules.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		programs, err := a.renamer.Programs(a.ctx)
		if err != nil {
			return err
		}
		return render.Programs(cmd.OutOrStdout(), programs, render.ThemeByName(flagTheme))
	},
}

func init() {
	rootCmd.AddCommand(printProgramsCmd)
}
