package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/aretw0/notehub/internal/config"
	"github.com/aretw0/notehub/internal/resolve"
	"github.com/aretw0/notehub/internal/ui"
	"github.com/aretw0/notehub/pkg/core"
	"github.com/aretw0/notehub/pkg/reconcile"
	"github.com/spf13/cobra"
)

var (
	flagHost   string
	flagOrg    string
	flagRepo   string
	flagGlobal bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notehub",
	Short: "Edit GitHub issues as local markdown notes",
	Long: `Notehub keeps a local, version-tracked cache of GitHub issues.
Notes are edited offline in your editor; locally changed ("dirty") notes
are detected and pushed back one at a time, so one broken note never
blocks the rest.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "GitHub host (github.com or an enterprise instance)")
	rootCmd.PersistentFlags().StringVar(&flagOrg, "org", "", "Organization or user owning the notes repository")
	rootCmd.PersistentFlags().StringVar(&flagRepo, "repo", "", "Notes repository name")
	rootCmd.PersistentFlags().BoolVar(&flagGlobal, "global", false, "Ignore the enclosing repository when resolving the target")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// loadConfig reads the optional config file.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load config", err)
	}
	return cfg
}

// cacheRoot resolves where cached notes live.
func cacheRoot(cfg config.Config) string {
	root, err := cfg.ResolveCacheRoot()
	if err != nil {
		fatal("Failed to resolve cache root", err)
	}
	return root
}

// resolveTarget combines flags, the enclosing repository, environment
// and configuration into the active target.
func resolveTarget(ctx context.Context, cfg config.Config) core.Target {
	return resolve.Target(ctx, resolve.Options{
		Host:         flagHost,
		Org:          flagOrg,
		Repo:         flagRepo,
		Global:       flagGlobal,
		FallbackHost: cfg.Host,
		Logger:       slog.Default(),
	})
}

func printResult(res reconcile.Result) {
	switch res.Outcome {
	case reconcile.OutcomeSynced:
		fmt.Printf("%s Synced %s\n", ui.RenderPass("✓"), res.Ref)
	case reconcile.OutcomeClean:
		fmt.Printf("• %s unchanged, nothing to push\n", res.Ref)
	case reconcile.OutcomeSkipped:
		fmt.Printf("%s Skipped %s - issue deleted on GitHub\n", ui.RenderWarn("⚠"), res.Ref)
	case reconcile.OutcomeFailed:
		fmt.Printf("%s Failed %s: %v\n", ui.RenderFail("✗"), res.Ref, res.Err)
	}
}

func printSummary(summary reconcile.Summary) {
	for _, res := range summary.Results {
		printResult(res)
	}
	fmt.Printf("Synced %d note(s), %d skipped, %d failed\n",
		summary.Synced, summary.Skipped, summary.Failed)
}
