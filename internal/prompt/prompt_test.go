package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func samplePlanInput() PlanInput {
	return PlanInput{
		Goal:              "Finish the first draft of my novel",
		Complexity:        ComplexityAmbitious,
		FocusArea:         "writing",
		WeekendPreference: WeekendRest,
		StartDate:         time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC),
		Commitments: []Commitment{
			{Day: "Monday", Start: "09:00", End: "17:00", Description: "Day job"},
			{Day: "Thursday", Start: "19:00", End: "20:00", Description: "Choir practice"},
		},
		Resolutions: []ResolutionTarget{
			{Title: "Read 24 books", Category: "learning", TargetCount: 24},
			{Title: "Run a marathon"},
		},
	}
}

func TestBuildPlanPromptIsDeterministic(t *testing.T) {
	input := samplePlanInput()
	first := BuildPlanPrompt(input, "2026-08")
	second := BuildPlanPrompt(input, "2026-08")
	assert.Equal(t, first, second)
}

func TestBuildPlanPromptContent(t *testing.T) {
	got := BuildPlanPrompt(samplePlanInput(), "2026-08")

	assert.Contains(t, got, "Create a monthly task plan for 2026-08.")
	assert.Contains(t, got, "Finish the first draft of my novel")
	assert.Contains(t, got, "PRIMARY FOCUS AREA: writing")

	// Resolutions are enumerated with category and annual target.
	assert.Contains(t, got, "1. Read 24 books [learning]")
	assert.Contains(t, got, "annual target: 24 supporting tasks")
	assert.Contains(t, got, "2. Run a marathon\n")

	// Commitments are enumerated as hard constraints.
	assert.Contains(t, got, "1. Monday 09:00-17:00: Day job")
	assert.Contains(t, got, "2. Thursday 19:00-20:00: Choir practice")
	assert.Contains(t, got, "never schedule tasks that overlap")

	assert.Contains(t, got, "Start scheduling from 2026-08-05")
	assert.Contains(t, got, "Complexity Ambitious: 4-6 tasks per day, 45-90 minutes each.")
	assert.Contains(t, got, "Keep weekends free of tasks")

	// The JSON contract with the parser travels inside the prompt.
	assert.Contains(t, got, `"monthly_summary"`)
	assert.Contains(t, got, `"weekly_breakdown"`)
	assert.Contains(t, got, `"difficulty_level": "easy|medium|hard"`)
}

func TestBuildPlanPromptOmitsEmptySections(t *testing.T) {
	got := BuildPlanPrompt(PlanInput{
		Goal:      "Just the goal",
		StartDate: time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
	}, "2026-08")

	assert.NotContains(t, got, "PRIMARY FOCUS AREA")
	assert.NotContains(t, got, "YEARLY RESOLUTIONS")
	assert.NotContains(t, got, "FIXED COMMITMENTS")
	// Unset preferences fall back to the balanced/mixed directives.
	assert.Contains(t, got, "Complexity Balanced: 2-4 tasks per day")
	assert.Contains(t, got, "Weekends carry a light, mixed load")
}

func TestBuildSystemPromptDefaults(t *testing.T) {
	got := BuildSystemPrompt(SystemInput{})

	assert.Contains(t, got, "You are Monthly Zen, a productivity coach with an encouraging tone.")
	assert.Contains(t, got, "Plan at Balanced complexity and treat weekends as mixed days.")
	assert.Contains(t, got, "Respond only with the JSON document requested")
}

func TestBuildSystemPromptCustomPersona(t *testing.T) {
	got := BuildSystemPrompt(SystemInput{
		CoachName:         "Atlas",
		Tone:              ToneDirect,
		Complexity:        ComplexitySimple,
		WeekendPreference: WeekendWork,
	})

	assert.Contains(t, got, "You are Atlas, a productivity coach with a direct tone.")
	assert.Contains(t, got, "Plan at Simple complexity and treat weekends as work days.")
}

func TestBuildSystemPromptRejectsUnknownValues(t *testing.T) {
	got := BuildSystemPrompt(SystemInput{
		Tone:              "sarcastic",
		Complexity:        "extreme",
		WeekendPreference: "party",
	})

	assert.Contains(t, got, "an encouraging tone")
	assert.Contains(t, got, "Balanced complexity")
	assert.True(t, strings.Contains(got, "mixed days"))
}
