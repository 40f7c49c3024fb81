package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mindspace/internal/models"
)

const trendWindow = 7

// MoodStats summarizes a newest-first mood history.
type MoodStats struct {
	Count      int
	Average    float64
	Trend      string
	MostCommon int
	Counts     map[int]int
}

func computeMoodStats(entries []models.MoodEntry) MoodStats {
	st := MoodStats{Count: len(entries), Counts: make(map[int]int), Trend: "stable"}
	if len(entries) == 0 {
		return st
	}

	sum := 0
	for _, e := range entries {
		lvl := e.Level()
		sum += lvl
		st.Counts[lvl]++
	}
	st.Average = float64(sum) / float64(len(entries))

	recent := entries
	if len(recent) > trendWindow {
		recent = recent[:trendWindow]
	}
	if len(recent) > 1 && recent[0].Level() > recent[len(recent)-1].Level() {
		st.Trend = "improving"
	}

	st.MostCommon = modalLevel(st.Counts)
	return st
}

// modalLevel returns the most frequent level; ties go to the lowest level.
func modalLevel(counts map[int]int) int {
	levels := sortedLevels(counts)
	best, bestCount := 0, -1
	for _, lvl := range levels {
		if counts[lvl] > bestCount {
			best, bestCount = lvl, counts[lvl]
		}
	}
	return best
}

func sortedLevels(counts map[int]int) []int {
	levels := make([]int, 0, len(counts))
	for lvl := range counts {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	return levels
}

func formatDistribution(counts map[int]int) string {
	parts := make([]string, 0, len(counts))
	for _, lvl := range sortedLevels(counts) {
		parts = append(parts, fmt.Sprintf("%d: %d", lvl, counts[lvl]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func describeMood(level int) string {
	if d, ok := moodDescriptions[level]; ok {
		return d
	}
	return "neutral"
}

// goalCoverage reports the categories that have an active goal, in the
// fixed order, and those without one. When every category is covered all
// of them are eligible again.
func goalCoverage(current []models.Goal) (existing, missing []string) {
	has := make(map[string]bool)
	for _, g := range current {
		cat := strings.ToLower(strings.TrimSpace(g.Category))
		has[cat] = true
	}
	for _, cat := range GoalCategories {
		if has[cat] {
			existing = append(existing, cat)
		} else {
			missing = append(missing, cat)
		}
	}
	if len(missing) == 0 {
		missing = append([]string(nil), GoalCategories...)
	}
	return existing, missing
}
