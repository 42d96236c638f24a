package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageLOCFromBytes(t *testing.T) {
	loc := LanguageLOCFromBytes(map[string]int{
		"Go":               2000,
		"Python":           600,
		"Jupyter Notebook": 5500,
		"HTML":             99999,
	})

	assert.Equal(t, 100, loc["Go"])
	// 600/60 + 5500/550
	assert.Equal(t, 20, loc["Python"])
	assert.NotContains(t, loc, "HTML")
	assert.NotContains(t, loc, "Jupyter Notebook")
}

func TestLanguageLOC_MergeSumsOnCollision(t *testing.T) {
	a := LanguageLOC{"Go": 10, "Java": 5}
	b := LanguageLOC{"Go": 7, "C++": 3}

	a.Merge(b)

	assert.Equal(t, LanguageLOC{"Go": 17, "Java": 5, "C++": 3}, a)
	assert.Equal(t, 25, a.Total())
}

func TestLanguageLOC_Report(t *testing.T) {
	loc := LanguageLOC{"Go": 1, "Python": 1, "Java": 1}

	report := loc.Report()
	require.Len(t, report, 3)

	var sum float64
	for _, share := range report {
		assert.Equal(t, 33.33, share.Percentage)
		sum += share.Percentage
	}
	assert.LessOrEqual(t, sum, 100.0)
	assert.NoError(t, report.Validate())
}

func TestLanguageLOC_ReportEmpty(t *testing.T) {
	assert.Empty(t, LanguageLOC{}.Report())
}

func TestLanguageReport_Sorted(t *testing.T) {
	report := LanguageReport{
		"Java":   {ApproxLinesOfCode: 10, Percentage: 10},
		"Go":     {ApproxLinesOfCode: 60, Percentage: 60},
		"Python": {ApproxLinesOfCode: 30, Percentage: 30},
	}

	sorted := report.Sorted()
	require.Len(t, sorted, 3)
	assert.Equal(t, "Go", sorted[0].Name)
	assert.Equal(t, "Python", sorted[1].Name)
	assert.Equal(t, "Java", sorted[2].Name)
}
