package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/notehub"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the notehub version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notehub version %s\n", strings.TrimSpace(notehub.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
