package insights

import (
	"fmt"
	"strings"

	"github.com/mindspace/internal/models"
)

func wellnessPrompt(req models.WellnessInsightRequest) string {
	moodSummary := "No mood entries yet"
	if len(req.MoodData) > 0 {
		st := computeMoodStats(req.MoodData)
		moodSummary = fmt.Sprintf("Average mood: %.1f/5, Recent trend: %s, Entries: %d",
			st.Average, st.Trend, st.Count)
	}

	goalsSummary := "No wellness goals set"
	if total := len(req.GoalsData); total > 0 {
		completed := 0
		for _, g := range req.GoalsData {
			if g.Completed {
				completed++
			}
		}
		goalsSummary = fmt.Sprintf("Total goals: %d, Completed: %d, Active: %d",
			total, completed, total-completed)
	}

	streakSummary := fmt.Sprintf("Current visit streak: %d days", req.StreakData.CurrentStreak)

	return fmt.Sprintf(`You are a supportive, empathetic wellness companion for a mental health platform called MindSpace.

Based on this user's wellness data, provide a brief, encouraging insight (2-3 sentences max).
Focus on positive reinforcement and gentle suggestions. Keep the tone warm, supportive, and non-clinical.

User Data:
- %s
- %s
- %s

Provide:
1. A personalized observation about their wellness journey
2. A short, uplifting affirmation tailored to their data

Format your response as JSON:
{"insight": "your observation here", "affirmation": "your affirmation here"}
`, moodSummary, goalsSummary, streakSummary)
}

func moodPrompt(st MoodStats) string {
	return fmt.Sprintf(`Analyze this mood pattern data and provide a brief, supportive insight.

Mood data (last %d entries):
- Average mood: %.1f/5
- Most common mood: %s
- Mood distribution: %s

Provide a brief, empathetic analysis (2 sentences max) and one actionable wellness suggestion.
Format as JSON: {"analysis": "...", "suggestion": "..."}
`, st.Count, st.Average, describeMood(st.MostCommon), formatDistribution(st.Counts))
}

func goalPrompt(existing, missing []string, completed int) string {
	current := "None"
	if len(existing) > 0 {
		current = "[" + strings.Join(existing, ", ") + "]"
	}
	return fmt.Sprintf(`Suggest one simple, achievable wellness goal for a mental health platform user.

Current goal categories: %s
Completed goals: %d
Suggested category: %s

Provide a specific, actionable goal (1 sentence) that's encouraging and achievable.
Format as JSON: {"goal": "...", "category": "...", "why": "..."}
`, current, completed, missing[0])
}
