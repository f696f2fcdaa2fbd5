package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timvw/tmux-window-name/internal/renamer"
)

var postRestoreCmd = &cobra.Command{
	Use:   "post-restore",
	Short: "Re-enable windows after a tmux-resurrect restore",
	Long: `Derive each window's enabled flag from its automatic-rename option and
install the rename hook. Meant for tmux-resurrect's post-restore-all hook:

  set -g @resurrect-hook-post-restore-all 'tmux-window-name post-restore'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return renamer.PostRestore(a.ctx, a.mux, a.exe)
	},
}

func init() {
	rootCmd.AddCommand(postRestoreCmd)
}
