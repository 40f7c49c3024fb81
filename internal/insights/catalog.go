package insights

// Pair is one canned insight with the affirmation written for it.
type Pair struct {
	Insight     string
	Affirmation string
}

var FallbackInsights = [8]Pair{
	{"Keep tracking your wellness journey - every step counts!", "You are capable of amazing things."},
	{"Your dedication to self-care makes a real difference.", "Every day is a chance to grow stronger."},
	{"Small steps lead to big changes in your wellbeing.", "You have the strength to overcome any challenge."},
	{"Taking time for yourself is never wasted time.", "Your mental health matters deeply."},
	{"Progress, not perfection, is what truly matters.", "Be proud of how far you have come."},
	{"Your commitment to wellness inspires positive change.", "You deserve all the happiness in the world."},
	{"Checking in with yourself is a powerful habit.", "Today is full of new possibilities."},
	{"Awareness is the first step toward positive growth.", "You are worthy of love and care."},
}

// GoalCategories is the fixed suggestion order.
var GoalCategories = []string{"mindfulness", "exercise", "sleep", "social", "learning"}

var GoalSuggestions = map[string]string{
	"mindfulness": "Practice 5 minutes of deep breathing today",
	"exercise":    "Take a 15-minute walk outside",
	"sleep":       "Set a consistent bedtime for this week",
	"social":      "Reach out to a friend or family member",
	"learning":    "Read one article about mental wellness",
}

var moodDescriptions = map[int]string{
	1: "very low",
	2: "low",
	3: "neutral",
	4: "good",
	5: "great",
}

const (
	GoalFallbackWhy = "Taking small steps each day builds lasting habits."

	MoodGuidanceAnalysis   = "Log a few more moods to get personalized insights about your emotional patterns."
	MoodGuidanceSuggestion = "Try logging your mood at the same time each day for better tracking."
	MoodFallbackSuggestion = "Consider journaling about what affects your mood."

	// Returned when a request cannot be read at all.
	DefaultInsight     = "Keep up your wellness journey!"
	DefaultAffirmation = "You are doing great!"
	DefaultGoal        = "Take a 10-minute mindfulness break today"
	DefaultGoalWhy     = "Small steps lead to big changes."

	minMoodEntries = 3
)
