package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timvw/tmux-window-name/internal/renamer"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the after-rename-window hook",
	Long: `The hook notices windows renamed by hand and stops renaming them.
Renaming a window to "" hands it back. Rename passes remove the hook while
they run and reinstall it afterwards.`,
}

var hookEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Install the rename hook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return renamer.EnableHook(a.ctx, a.mux, a.exe)
	},
}

var hookDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Remove the rename hook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return renamer.DisableHook(a.ctx, a.mux)
	},
}

func init() {
	hookCmd.AddCommand(hookEnableCmd, hookDisableCmd)
	rootCmd.AddCommand(hookCmd)
}
