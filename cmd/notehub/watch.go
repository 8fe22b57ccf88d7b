package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/notehub"
	"github.com/aretw0/notehub/pkg/reconcile"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	watchInterval time.Duration
	watchLogFile  string
	watchPattern  string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the cache and push notes as they change",
	Long: `Watch keeps running, pushing dirty notes whenever cached content
changes on disk. Changes are debounced so editor save bursts become one
sync cycle, and every cycle rescans the cache from scratch, so notes
cached while watching are picked up too. Ctrl+C stops cleanly.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		root := cacheRoot(cfg)

		logger := slog.Default()
		if watchLogFile != "" {
			sink := &lumberjack.Logger{
				Filename:   watchLogFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			}
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(io.MultiWriter(os.Stderr, sink), &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
		}

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", root)
		err := notehub.Watch(cmd.Context(),
			notehub.WithCacheRoot(root),
			notehub.WithPattern(watchPattern),
			notehub.WithDebounce(watchInterval),
			notehub.WithLogger(logger),
			notehub.WithSyncHook(func(summary reconcile.Summary) {
				if len(summary.Results) > 0 {
					printSummary(summary)
				}
			}),
		)
		if err != nil {
			fatal("Watch failed", err)
		}
		fmt.Println("Stopped.")
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", reconcile.DefaultDebounce, "How long changes settle before a sync cycle")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "Also write logs to this rolling file")
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Only sync entries matching this host/org/repo/number glob")
}
