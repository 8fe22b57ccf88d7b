package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/notehub"
	"github.com/aretw0/notehub/pkg/core"
	"github.com/aretw0/notehub/pkg/reconcile"
	"github.com/spf13/cobra"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit [note]",
	Short: "Edit a note in your editor and push it back",
	Long: `Edit opens a note in your editor and pushes the result back to GitHub.
The note is an issue number or a pattern matched against open note titles.
On first contact the note is fetched and cached locally; closing the
editor without changes makes no remote call. Edits that fail to push stay
cached and are picked up by 'notehub sync'.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		target := resolveTarget(cmd.Context(), cfg)

		res, err := notehub.Edit(cmd.Context(), target, args[0],
			notehub.WithCacheRoot(cacheRoot(cfg)),
			notehub.WithEditor(cfg.Editor),
			notehub.WithLogger(slog.Default()),
		)
		if err != nil {
			if errors.Is(err, core.ErrCancelled) {
				fmt.Fprintln(os.Stderr, "Cancelled")
				os.Exit(1)
			}
			fatal("Edit failed", err)
		}

		printResult(res)
		if res.Outcome == reconcile.OutcomeFailed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
