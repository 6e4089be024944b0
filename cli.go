package quiren

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type CLIConfig struct {
	Delete    bool
	Retry     bool
	DryRun    bool
	Trash     bool
	Verbosity int
}

var cliCfg = &CLIConfig{}

var rootCmd = &cobra.Command{
	Use:   "quiren [flags] [dir]",
	Short: "Bulk-rename files by editing the directory listing in your editor.",
	Long: `Open a directory listing in $VISUAL or $EDITOR, one filename per line.
Edit a line to rename that file; with --delete, blank or remove trailing
lines to delete files. Changes are reconciled safely: rename cycles and
chains are reordered and routed through temporary names so no file is
ever overwritten.

Example: quiren -d ~/downloads`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		SetupLogger(cliCfg.Verbosity)

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		} else if wd, err := os.Getwd(); err == nil {
			dir = wd
		}

		app := NewApp(&Config{
			Dir:    dir,
			Delete: cliCfg.Delete,
			Retry:  cliCfg.Retry,
			DryRun: cliCfg.DryRun,
			Trash:  cliCfg.Trash,
		})

		summary, err := app.Run(cmd.Context())
		if summary != nil {
			fmt.Print(FormatSummary(*summary))
		}
		return err
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&cliCfg.Delete, "delete", "d", false, "Delete files removed from the listing")
	rootCmd.Flags().BoolVarP(&cliCfg.Retry, "retry", "r", false, "Re-enter the editor after an error")
	rootCmd.Flags().BoolVarP(&cliCfg.DryRun, "dry-run", "n", false, "Show changes and ask for confirmation")
	rootCmd.Flags().BoolVarP(&cliCfg.Trash, "trash", "t", false, "Trash files instead of deleting them")
	rootCmd.Flags().CountVarP(&cliCfg.Verbosity, "verbose", "v", "Increase log verbosity")

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

func Execute() error {
	return rootCmd.Execute()
}
