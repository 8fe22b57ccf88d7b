package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/aretw0/notehub/pkg/gh"
	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new note on GitHub",
	Long: `Add starts gh's interactive issue creation against the resolved
repository, labelling the issue as a note so it shows up in listings.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		target := resolveTarget(cmd.Context(), cfg)
		store := gh.NewClient(slog.Default())

		if err := store.Create(cmd.Context(), target); err != nil {
			if cmd.Context().Err() != nil {
				fmt.Fprintln(os.Stderr, "Cancelled")
				os.Exit(1)
			}
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
				os.Exit(exitErr.ExitCode())
			}
			fatal("Failed to create note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
