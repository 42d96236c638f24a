package main

import (
	"errors"
	"fmt"
	"ghstats/internal/structures"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var flags = &structures.CliFlags{}

var rootCmd = &cobra.Command{
	Use:   "ghstats",
	Short: "GitHub profile statistics daemon",
	Long: `ghstats aggregates a GitHub user's public activity into a snapshot
(totals, streaks, language breakdown) and serves it as JSON or an SVG card.

Example usage:
  ghstats serve                       # Run the HTTP daemon
  ghstats show octocat                # Print a user's snapshot
  ghstats render octocat -o card.svg  # Write the SVG card to a file`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv(".env")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "log to the console as well")
}

// loadEnv exports variables from path; a missing file is not an error.
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}
