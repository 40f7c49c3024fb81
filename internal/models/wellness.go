package models

// DefaultMoodLevel is assumed for entries that omit mood_level.
const DefaultMoodLevel = 3

// MoodEntry is one logged mood, 1 (very low) to 5 (great). Entries arrive
// newest first.
type MoodEntry struct {
	MoodLevel *int   `json:"mood_level,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (m MoodEntry) Level() int {
	if m.MoodLevel == nil {
		return DefaultMoodLevel
	}
	return *m.MoodLevel
}

type Goal struct {
	Title     string `json:"title,omitempty"`
	Category  string `json:"category,omitempty"`
	Completed bool   `json:"completed"`
}

type StreakData struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

type WellnessInsightRequest struct {
	MoodData   []MoodEntry `json:"mood_data"`
	GoalsData  []Goal      `json:"goals_data"`
	StreakData StreakData  `json:"streak_data"`
}

type WellnessInsightResponse struct {
	Success     bool   `json:"success"`
	Insight     string `json:"insight"`
	Affirmation string `json:"affirmation"`
}

type MoodAnalysisRequest struct {
	MoodEntries []MoodEntry `json:"mood_entries"`
}

type MoodAnalysisResponse struct {
	Success    bool   `json:"success"`
	Analysis   string `json:"analysis"`
	Suggestion string `json:"suggestion"`
}

type GoalSuggestionRequest struct {
	CurrentGoals   []Goal `json:"current_goals"`
	CompletedGoals []Goal `json:"completed_goals"`
}

type GoalSuggestionResponse struct {
	Success  bool   `json:"success"`
	Goal     string `json:"goal"`
	Category string `json:"category"`
	Why      string `json:"why"`
}
