package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/notehub/internal/ui"
	"github.com/aretw0/notehub/pkg/cache"
	"github.com/aretw0/notehub/pkg/gh"
	"github.com/spf13/cobra"
)

var (
	listCached  bool
	listPattern string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long: `List shows the target's open notes on GitHub.
With --cached it lists the locally cached entries instead, marking dirty
ones with *; no remote call is made.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if listCached {
			listLocal(cmd.Context())
			return
		}
		listRemote(cmd.Context())
	},
}

func listRemote(ctx context.Context) {
	cfg := loadConfig()
	target := resolveTarget(ctx, cfg)
	store := gh.NewClient(slog.Default())

	issues, err := store.ListOpen(ctx, target)
	if err != nil {
		fatal("Failed to list notes", err)
	}
	if len(issues) == 0 {
		fmt.Printf("No open notes in %s.\n", target.Identifier())
		return
	}

	for _, issue := range issues {
		fmt.Printf("[#%d] %s\n    %s\n", issue.Number, issue.Title, issue.URL)
	}
}

func listLocal(ctx context.Context) {
	cfg := loadConfig()
	root := cacheRoot(cfg)

	entries := cache.FindAll(root, slog.Default())
	entries, err := cache.Filter(entries, listPattern)
	if err != nil {
		fatal("Invalid pattern", err)
	}
	if len(entries) == 0 {
		fmt.Println("No cached notes.")
		return
	}

	for _, entry := range entries {
		marker := " "
		if dirty, err := entry.IsDirty(ctx); err == nil && dirty {
			marker = ui.RenderWarn("*")
		}
		fmt.Printf("%s %s\n    %s\n", marker, entry.Ref, entry.Path)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listCached, "cached", false, "List locally cached notes instead of remote ones")
	listCmd.Flags().StringVar(&listPattern, "pattern", "", "With --cached, only list entries matching this host/org/repo/number glob")
}
