package models

import (
	"fmt"
	"math"
	"sort"
)

// Tracked languages and their average source bytes per line.
var bytesPerLine = map[string]int{
	"Python":           60,
	"Go":               20,
	"Java":             30,
	"JavaScript":       20,
	"Solidity":         25,
	"C++":              10,
	"Jupyter Notebook": 550,
}

// notebooks are counted as Python
var languageAlias = map[string]string{
	"Jupyter Notebook": "Python",
}

// LanguageLOC maps a language name to its estimated lines of code.
type LanguageLOC map[string]int

// LanguageLOCFromBytes estimates lines of code from a repository's byte breakdown.
// Untracked languages are ignored.
func LanguageLOCFromBytes(langBytes map[string]int) LanguageLOC {
	loc := make(LanguageLOC)
	for lang, n := range langBytes {
		per, ok := bytesPerLine[lang]
		if !ok || n <= 0 {
			continue
		}
		loc.Add(lang, n/per)
	}
	return loc
}

func (l LanguageLOC) Add(lang string, lines int) {
	if lines <= 0 {
		return
	}
	if alias, ok := languageAlias[lang]; ok {
		lang = alias
	}
	l[lang] += lines
}

// Merge sums other into l on key collision.
func (l LanguageLOC) Merge(other LanguageLOC) {
	for lang, lines := range other {
		l.Add(lang, lines)
	}
}

func (l LanguageLOC) Total() int {
	total := 0
	for _, lines := range l {
		total += lines
	}
	return total
}

// Report converts line estimates into shares. Percentages are floored to two decimals,
// so their sum never exceeds 100.
func (l LanguageLOC) Report() LanguageReport {
	report := make(LanguageReport, len(l))
	total := l.Total()
	if total == 0 {
		return report
	}
	for lang, lines := range l {
		if lines <= 0 {
			continue
		}
		pct := float64(lines) / float64(total) * 100
		report[lang] = LanguageShare{
			ApproxLinesOfCode: lines,
			Percentage:        math.Floor(pct*100) / 100,
		}
	}
	return report
}

type LanguageShare struct {
	ApproxLinesOfCode int     `json:"approx_lines_of_code"`
	Percentage        float64 `json:"percentage"`
}

type LanguageReport map[string]LanguageShare

type NamedLanguageShare struct {
	Name string
	LanguageShare
}

// Sorted returns the shares ordered by percentage, descending, then by name.
func (r LanguageReport) Sorted() []NamedLanguageShare {
	out := make([]NamedLanguageShare, 0, len(r))
	for name, share := range r {
		out = append(out, NamedLanguageShare{Name: name, LanguageShare: share})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Percentage != out[j].Percentage {
			return out[i].Percentage > out[j].Percentage
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r LanguageReport) Validate() error {
	var sum float64
	for name, share := range r {
		if share.ApproxLinesOfCode < 0 || share.Percentage < 0 || share.Percentage > 100 {
			return fmt.Errorf("language %q: invalid share %+v", name, share)
		}
		sum += share.Percentage
	}
	// tolerate float noise from summing floored values
	if sum > 100.0001 {
		return fmt.Errorf("language percentages sum to %.2f", sum)
	}
	return nil
}
