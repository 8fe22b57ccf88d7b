package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/notehub"
	"github.com/aretw0/notehub/internal/ui"
	"github.com/aretw0/notehub/pkg/gh"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [note]...",
	Short: "Show notes' titles and URLs",
	Long: `Show prints each note's title and URL. Notes are issue numbers or
patterns matched against open note titles. A note that cannot be shown is
reported and the rest are still processed.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		target := resolveTarget(cmd.Context(), cfg)
		store := gh.NewClient(slog.Default())

		failed := false
		for _, ident := range args {
			ref, err := notehub.ResolveRef(cmd.Context(), store, target, ident)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %s: %v\n", ui.RenderFail("✗"), ident, err)
				failed = true
				continue
			}

			issue, err := store.Get(cmd.Context(), ref)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %s: %v\n", ui.RenderFail("✗"), ref, err)
				failed = true
				continue
			}

			fmt.Printf("[#%d] %s\n    %s\n", issue.Number, issue.Title, target.IssueURL(issue.Number))
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
