package main

import (
	"context"
	"fmt"
	"ghstats/internal"
	"ghstats/internal/di"
	"ghstats/internal/models"
	"ghstats/internal/render"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const chartDays = 90

var showCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Print a user's snapshot and recent activity",
	Long: `Print a user's snapshot and a plot of the last 90 days of activity.

Examples:
  ghstats show octocat              # Serve from the snapshot cache when fresh
  ghstats show octocat --refresh    # Force a new aggregation`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("refresh", false, "ignore the cached snapshot")
	showCmd.Flags().Duration("timeout", 2*time.Minute, "overall timeout")
	showCmd.Flags().Bool("no-chart", false, "skip the activity chart")
}

func runShow(cmd *cobra.Command, args []string) error {
	refresh, _ := cmd.Flags().GetBool("refresh")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	noChart, _ := cmd.Flags().GetBool("no-chart")

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

	out := cmd.OutOrStdout()
	printSnapshot(out, snap)

	if noChart {
		return nil
	}
	days, err := console.Source.FetchDailyActivity(ctx, snap.Username)
	if err != nil {
		fmt.Fprintf(out, "\nactivity unavailable: %s\n", err)
		return nil
	}
	fmt.Fprintf(out, "\n%s\n", render.ActivityChart(days, time.Now(), chartDays, 8))
	return nil
}

func fetchSnapshot(ctx context.Context, console *internal.Console, username string, refresh bool) (*models.StatsSnapshot, error) {
	if refresh {
		return console.Stats.Refresh(ctx, username)
	}
	return console.Stats.GetStats(ctx, username)
}

func printSnapshot(w io.Writer, snap *models.StatsSnapshot) {
	fmt.Fprintf(w, "%s\n", snap.Username)
	fmt.Fprintf(w, "  Contributions:  %s (since %s)\n", humanize.Comma(int64(snap.TotalContributions)), orNA(snap.InitialDate))
	fmt.Fprintf(w, "  Commits:        %s\n", humanize.Comma(int64(snap.TotalCommits)))
	fmt.Fprintf(w, "  Stars:          %s\n", humanize.Comma(int64(snap.TotalStars)))
	fmt.Fprintf(w, "  Pull requests:  %s\n", humanize.Comma(int64(snap.TotalPRs)))
	fmt.Fprintf(w, "  Issues:         %s\n", humanize.Comma(int64(snap.TotalIssues)))
	fmt.Fprintf(w, "  Repositories:   %d owned, %d contributed\n", snap.ReposOwned, snap.ReposContributed)
	fmt.Fprintf(w, "  Current streak: %s\n", streakLine(snap.CurrentStreak))
	fmt.Fprintf(w, "  Longest streak: %s\n", streakLine(snap.LongestStreak))

	langs := snap.Languages.Sorted()
	if len(langs) == 0 {
		return
	}
	fmt.Fprintf(w, "  Languages:\n")
	for _, l := range langs {
		fmt.Fprintf(w, "    %-18s %6.2f%%  ~%s lines\n", l.Name, l.Percentage, humanize.Comma(int64(l.ApproxLinesOfCode)))
	}
}

func streakLine(s *models.Streak) string {
	if s == nil {
		return "none"
	}
	return fmt.Sprintf("%d days (%s - %s)", s.Length, s.StartDate, s.EndDate)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
