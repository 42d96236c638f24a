package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"ghstats/internal/models"
	"html"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	cardWidth    = 570
	cardHeight   = 250
	maxLanguages = 6
)

var (
	barColors = []string{"#FF5F1F", "#FFA500", "#F4BB44", "#FFD580", "#FFDEAD", "#FBCEB1"}
	labelX    = []int{5, 135, 245, 330, 400, 480}
)

//go:embed templates/card.svg.tmpl
var cardTemplate string

var cardTmpl = template.Must(
	template.New("card").
		Funcs(template.FuncMap{
			"esc": html.EscapeString,
		}).
		Parse(cardTemplate),
)

type languageBar struct {
	Name    string
	Percent float64
	Width   float64
	RectX   float64
	TextX   int
	Fill    string
}

type cardViewModel struct {
	Width  int
	Height int
	Title  string

	Stars         string
	Commits       string
	PRs           string
	Issues        string
	Repos         string
	Contributions string
	Period        string

	CurrentStreak      int
	CurrentStreakDates string
	LongestStreak      int
	LongestStreakDates string

	Languages []languageBar
}

// SVG renders a snapshot as a stats card.
func SVG(snap *models.StatsSnapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("render svg: nil snapshot")
	}

	period := "N/A - Present"
	if snap.InitialDate != "" {
		period = shortDate(snap.InitialDate, "Jan 2, 2006") + " - Present"
	}

	currentLen, currentDates := streakView(snap.CurrentStreak)
	longestLen, longestDates := streakView(snap.LongestStreak)

	vm := cardViewModel{
		Width:              cardWidth,
		Height:             cardHeight,
		Title:              strings.ToUpper(strings.ReplaceAll(snap.Username, "-", " ")),
		Stars:              humanize.Comma(int64(snap.TotalStars)),
		Commits:            humanize.Comma(int64(snap.TotalCommits)),
		PRs:                humanize.Comma(int64(snap.TotalPRs)),
		Issues:             humanize.Comma(int64(snap.TotalIssues)),
		Repos:              humanize.Comma(int64(snap.ReposTotal)),
		Contributions:      humanize.Comma(int64(snap.TotalContributions)),
		Period:             period,
		CurrentStreak:      currentLen,
		CurrentStreakDates: currentDates,
		LongestStreak:      longestLen,
		LongestStreakDates: longestDates,
		Languages:          languageBars(snap.Languages),
	}

	var buf bytes.Buffer
	if err := cardTmpl.Execute(&buf, vm); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return buf.Bytes(), nil
}

// streakView substitutes 0 and N/A for an absent streak.
func streakView(s *models.Streak) (int, string) {
	if s == nil {
		return 0, "N/A - N/A"
	}
	return s.Length, shortDate(s.StartDate, "Jan 02") + " - " + shortDate(s.EndDate, "Jan 02")
}

func shortDate(date, layout string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(layout)
}

func languageBars(report models.LanguageReport) []languageBar {
	sorted := report.Sorted()
	if len(sorted) > maxLanguages {
		sorted = sorted[:maxLanguages]
	}

	bars := make([]languageBar, 0, len(sorted))
	x := 0.0
	for i, l := range sorted {
		width := l.Percentage / 100 * cardWidth
		bars = append(bars, languageBar{
			Name:    l.Name,
			Percent: l.Percentage,
			Width:   width,
			RectX:   x,
			TextX:   labelX[i%len(labelX)],
			Fill:    barColors[i%len(barColors)],
		})
		x += width
	}
	return bars
}
