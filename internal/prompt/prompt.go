// Package prompt assembles the natural-language requests sent to the plan
// generator. Both builders are pure: the same input always produces
// byte-identical output, which keeps them snapshot-testable and keeps the
// JSON contract embedded in the plan prompt stable for the downstream parser.
package prompt

import (
	"fmt"
	"strings"
	"time"
)

// Task complexity levels.
const (
	ComplexitySimple    = "Simple"
	ComplexityBalanced  = "Balanced"
	ComplexityAmbitious = "Ambitious"
)

// Weekend preferences.
const (
	WeekendWork  = "Work"
	WeekendRest  = "Rest"
	WeekendMixed = "Mixed"
)

// Coach tones.
const (
	ToneEncouraging = "encouraging"
	ToneDirect      = "direct"
	ToneAnalytical  = "analytical"
	ToneFriendly    = "friendly"
)

const defaultCoachName = "Monthly Zen"

// Commitment is a fixed block of time the generator must schedule around.
type Commitment struct {
	Day         string // e.g. Monday
	Start       string // HH:MM
	End         string // HH:MM
	Description string
}

// ResolutionTarget is a yearly resolution the plan should support.
type ResolutionTarget struct {
	Title       string
	Category    string
	TargetCount int // supporting tasks per year
}

// PlanInput carries everything the plan prompt embeds.
type PlanInput struct {
	Goal              string
	Complexity        string // Simple, Balanced, Ambitious
	FocusArea         string
	WeekendPreference string // Work, Rest, Mixed
	StartDate         time.Time
	Commitments       []Commitment
	Resolutions       []ResolutionTarget
}

// SystemInput carries the persona fields for the system prompt. Zero values
// fall back to documented defaults.
type SystemInput struct {
	CoachName         string
	Tone              string
	Complexity        string
	WeekendPreference string
}

// BuildPlanPrompt renders the full generation request for one month.
func BuildPlanPrompt(input PlanInput, monthYear string) string {
	var b strings.Builder

	b.WriteString("Create a monthly task plan for ")
	b.WriteString(monthYear)
	b.WriteString(".\n\n")

	b.WriteString("USER GOAL:\n")
	b.WriteString(input.Goal)
	b.WriteString("\n\n")

	if input.FocusArea != "" {
		b.WriteString("PRIMARY FOCUS AREA: ")
		b.WriteString(input.FocusArea)
		b.WriteString("\n\n")
	}

	if len(input.Resolutions) > 0 {
		b.WriteString("ACTIVE YEARLY RESOLUTIONS (schedule 1-2 supporting tasks per resolution per week):\n")
		for i, res := range input.Resolutions {
			b.WriteString(fmt.Sprintf("%d. %s", i+1, res.Title))
			if res.Category != "" {
				b.WriteString(fmt.Sprintf(" [%s]", res.Category))
			}
			if res.TargetCount > 0 {
				b.WriteString(fmt.Sprintf(" — annual target: %d supporting tasks", res.TargetCount))
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	if len(input.Commitments) > 0 {
		b.WriteString("FIXED COMMITMENTS (never schedule tasks that overlap these):\n")
		for i, c := range input.Commitments {
			b.WriteString(fmt.Sprintf("%d. %s %s-%s: %s\n", i+1, c.Day, c.Start, c.End, c.Description))
		}
		b.WriteByte('\n')
	}

	b.WriteString("SCHEDULING DIRECTIVES:\n")
	b.WriteString(fmt.Sprintf("- Start scheduling from %s, not from the first day of the month.\n", input.StartDate.Format("2006-01-02")))
	b.WriteString("- Never overlap the fixed commitments listed above.\n")
	b.WriteString("- Schedule 1-2 supporting tasks per yearly resolution per week.\n")
	b.WriteString(complexityDirective(input.Complexity))
	b.WriteString(weekendDirective(input.WeekendPreference))
	b.WriteByte('\n')

	b.WriteString(outputContract)

	return b.String()
}

// BuildSystemPrompt renders the persona/style directive. Absent fields use
// the documented defaults: tone "encouraging", complexity "Balanced",
// weekend preference "Mixed", coach name "Monthly Zen".
func BuildSystemPrompt(input SystemInput) string {
	name := input.CoachName
	if name == "" {
		name = defaultCoachName
	}
	tone := input.Tone
	switch tone {
	case ToneEncouraging, ToneDirect, ToneAnalytical, ToneFriendly:
	default:
		tone = ToneEncouraging
	}
	complexity := input.Complexity
	switch complexity {
	case ComplexitySimple, ComplexityBalanced, ComplexityAmbitious:
	default:
		complexity = ComplexityBalanced
	}
	weekend := input.WeekendPreference
	switch weekend {
	case WeekendWork, WeekendRest, WeekendMixed:
	default:
		weekend = WeekendMixed
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("You are %s, a productivity coach with %s %s tone.\n", name, article(tone), tone))
	b.WriteString(fmt.Sprintf("Plan at %s complexity and treat weekends as %s days.\n", complexity, strings.ToLower(weekend)))
	b.WriteString("Respond only with the JSON document requested, no prose around it.")
	return b.String()
}

func complexityDirective(complexity string) string {
	switch complexity {
	case ComplexitySimple:
		return "- Complexity Simple: 1-2 tasks per day, 15-30 minutes each.\n"
	case ComplexityAmbitious:
		return "- Complexity Ambitious: 4-6 tasks per day, 45-90 minutes each.\n"
	default:
		return "- Complexity Balanced: 2-4 tasks per day, 30-60 minutes each.\n"
	}
}

func weekendDirective(preference string) string {
	switch preference {
	case WeekendWork:
		return "- Weekends carry a full workload, same as weekdays.\n"
	case WeekendRest:
		return "- Keep weekends free of tasks; they are rest days.\n"
	default:
		return "- Weekends carry a light, mixed load: at most half the weekday task count.\n"
	}
}

func article(tone string) string {
	switch tone {
	case ToneEncouraging, ToneAnalytical:
		return "an"
	default:
		return "a"
	}
}

// outputContract is the strict response schema. The downstream parser depends
// on these exact field names.
const outputContract = `OUTPUT FORMAT (strict JSON, no markdown fences, no commentary):
{
  "monthly_summary": "one paragraph describing the month's arc",
  "weekly_breakdown": [
    {
      "week": 1,
      "goals": ["..."],
      "daily_tasks": {
        "Monday": [
          {
            "task_description": "...",
            "focus_area": "...",
            "start_time": "HH:MM",
            "end_time": "HH:MM",
            "difficulty_level": "easy|medium|hard",
            "scheduling_reason": "..."
          }
        ]
      }
    }
  ]
}`
