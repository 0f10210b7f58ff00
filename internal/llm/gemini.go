// Package llm wraps the Gemini chat-completion call that turns a plan prompt
// into a structured plan document. The call itself is an external
// collaborator; everything in-repo stops at building the request and parsing
// the strict JSON response.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// PlanDocument mirrors the JSON schema embedded in the plan prompt. The field
// names are a load-bearing contract with the prompt's output format.
type PlanDocument struct {
	MonthlySummary  string       `json:"monthly_summary"`
	WeeklyBreakdown []WeeklyPlan `json:"weekly_breakdown"`
}

// WeeklyPlan is one week of the generated plan.
type WeeklyPlan struct {
	Week       int                      `json:"week"`
	Goals      []string                 `json:"goals"`
	DailyTasks map[string][]PlannedTask `json:"daily_tasks"`
}

// PlannedTask is one generated task before scheduling into real dates.
type PlannedTask struct {
	TaskDescription  string `json:"task_description"`
	FocusArea        string `json:"focus_area"`
	StartTime        string `json:"start_time"` // HH:MM
	EndTime          string `json:"end_time"`   // HH:MM
	DifficultyLevel  string `json:"difficulty_level"`
	SchedulingReason string `json:"scheduling_reason"`
}

// GeminiClient calls the Gemini API for plan generation.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a plan-generation client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// GeneratePlan sends the prompts and parses the strict JSON response.
func (c *GeminiClient) GeneratePlan(ctx context.Context, systemPrompt, userPrompt string) (*PlanDocument, error) {
	resp, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(userPrompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini returned an empty response")
	}

	return ParsePlanDocument(text)
}

// ParsePlanDocument decodes a plan document, tolerating markdown fences some
// models wrap around JSON despite instructions.
func ParsePlanDocument(raw string) (*PlanDocument, error) {
	cleaned := stripFences(raw)

	var doc PlanDocument
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("parse plan document: %w", err)
	}
	if len(doc.WeeklyBreakdown) == 0 {
		return nil, fmt.Errorf("plan document has no weekly breakdown")
	}
	return &doc, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
