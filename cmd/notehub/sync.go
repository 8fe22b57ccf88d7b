package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/notehub"
	"github.com/aretw0/notehub/internal/config"
	"github.com/aretw0/notehub/pkg/gh"
	"github.com/aretw0/notehub/pkg/reconcile"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	syncCached      bool
	syncPattern     string
	syncInteractive bool
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync [note]",
	Short: "Push locally edited notes back to GitHub",
	Long: `Sync pushes cached notes back to GitHub.

Without arguments (or with --cached) every dirty note is pushed, one at a
time; a note that fails never blocks the others. Notes whose issue was
deleted remotely are skipped and kept locally. With a note argument that
single note is pushed even when unchanged.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if syncCached && len(args) == 1 {
			fmt.Println("Error: --cached cannot be combined with a note argument")
			cmd.Usage()
			os.Exit(1)
		}

		cfg := loadConfig()
		root := cacheRoot(cfg)

		if len(args) == 1 {
			syncOne(cmd.Context(), cfg, root, args[0])
			return
		}
		syncBatch(cmd.Context(), root)
	},
}

// syncOne pushes a single note, forced, so re-asserting content that
// already matches the baseline still reaches the remote.
func syncOne(ctx context.Context, cfg config.Config, root, ident string) {
	target := resolveTarget(ctx, cfg)
	store := gh.NewClient(slog.Default())

	ref, err := notehub.ResolveRef(ctx, store, target, ident)
	if err != nil {
		fatal("Failed to resolve note", err)
	}

	res, err := notehub.Push(ctx, ref, true,
		notehub.WithCacheRoot(root),
		notehub.WithStore(store),
		notehub.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Sync failed", err)
	}

	printResult(res)
	if res.Outcome == reconcile.OutcomeFailed {
		os.Exit(1)
	}
}

func syncBatch(ctx context.Context, root string) {
	opts := []notehub.Option{
		notehub.WithCacheRoot(root),
		notehub.WithPattern(syncPattern),
		notehub.WithLogger(slog.Default()),
	}

	if syncInteractive && term.IsTerminal(int(os.Stdin.Fd())) {
		entries, err := notehub.FindDirty(ctx, opts...)
		if err != nil {
			fatal("Failed to scan cache", err)
		}
		if len(entries) == 0 {
			fmt.Println("No dirty notes to sync.")
			return
		}
		for _, entry := range entries {
			fmt.Printf("  %s\n", entry.Ref)
		}

		var proceed bool
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Push %d dirty note(s)?", len(entries))).
			Affirmative("Push").
			Negative("Cancel").
			Value(&proceed)
		if err := prompt.Run(); err != nil || !proceed {
			if err != nil && !errors.Is(err, huh.ErrUserAborted) {
				fatal("Prompt failed", err)
			}
			fmt.Fprintln(os.Stderr, "Cancelled")
			os.Exit(1)
		}
	}

	summary, err := notehub.SyncCached(ctx, opts...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			if len(summary.Results) > 0 {
				printSummary(summary)
			}
			fmt.Fprintln(os.Stderr, "Cancelled")
			os.Exit(1)
		}
		fatal("Sync failed", err)
	}

	if len(summary.Results) == 0 {
		fmt.Println("No dirty notes to sync.")
		return
	}

	printSummary(summary)
	if !summary.OK() {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolVar(&syncCached, "cached", false, "Push every dirty cached note (the default without arguments)")
	syncCmd.Flags().StringVar(&syncPattern, "pattern", "", "Only sync entries matching this host/org/repo/number glob")
	syncCmd.Flags().BoolVarP(&syncInteractive, "interactive", "i", false, "List dirty notes and confirm before pushing")
}
