package main

import (
	"context"
	"fmt"
	"ghstats/internal/di"
	"ghstats/internal/render"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <username>",
	Short: "Write a user's SVG card to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "output file (default <username>.svg)")
	renderCmd.Flags().Bool("refresh", false, "ignore the cached snapshot")
	renderCmd.Flags().Duration("timeout", 2*time.Minute, "overall timeout")
}

func runRender(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	refresh, _ := cmd.Flags().GetBool("refresh")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if output == "" {
		output = args[0] + ".svg"
	}

	console, err := di.InitConsole(flags)
	if err != nil {
		return err
	}
	defer console.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	snap, err := fetchSnapshot(ctx, console, args[0], refresh)
	if err != nil {
		return err
	}

	svg, err := render.SVG(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, svg, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(svg))
	return nil
}
