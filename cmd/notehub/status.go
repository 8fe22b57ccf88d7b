package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/notehub/internal/ui"
	"github.com/aretw0/notehub/pkg/cache"
	"github.com/aretw0/notehub/pkg/gh"
	"github.com/aretw0/notehub/pkg/git"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the resolved context, cache and gh authentication state",
	Long: `Status reports which host, org and repo notehub would talk to, where
the cache lives, and whether the gh CLI is installed and authenticated.
It is diagnostic only and always exits 0.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()
		target := resolveTarget(ctx, cfg)

		fmt.Println(ui.RenderAccent("Context"))
		fmt.Printf("  Host: %s\n", target.Host)
		fmt.Printf("  Org:  %s\n", target.Org)
		fmt.Printf("  Repo: %s\n", target.Repo)
		if flagGlobal {
			fmt.Println("  Checkout: N/A - global context")
		} else if top := git.NewClient("", slog.Default()).TopLevel(ctx); top != "" {
			fmt.Printf("  Checkout: %s\n", top)
		} else {
			fmt.Println("  Checkout: N/A - not inside a repository")
		}

		root := cacheRoot(cfg)
		fmt.Println()
		fmt.Println(ui.RenderAccent("Cache"))
		fmt.Printf("  Root: %s\n", root)
		entries := cache.FindAll(root, slog.Default())
		dirty := cache.FindDirty(ctx, root, slog.Default())
		fmt.Printf("  Notes: %d cached, %d dirty\n", len(entries), len(dirty))

		fmt.Println()
		fmt.Println(ui.RenderAccent("GitHub CLI"))
		store := gh.NewClient(slog.Default())
		if !store.CheckInstalled() {
			fmt.Printf("  %s gh not found, install it from https://cli.github.com/\n", ui.RenderFail("✗"))
			return
		}
		fmt.Printf("  %s gh installed\n", ui.RenderPass("✓"))

		if store.CheckAuth(ctx, target.Host) {
			if user := store.CurrentUser(ctx, target.Host); user != "" {
				fmt.Printf("  %s authenticated as %s\n", ui.RenderPass("✓"), user)
			} else {
				fmt.Printf("  %s authenticated\n", ui.RenderPass("✓"))
			}
		} else {
			fmt.Printf("  %s not authenticated, run 'gh auth login --hostname %s'\n", ui.RenderFail("✗"), target.Host)
		}

		if src := gh.AuthSource(target.Host, os.Environ()); src != "" {
			fmt.Printf("  Token source: %s (environment)\n", src)
		} else {
			fmt.Println("  Token source: stored credentials")
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
