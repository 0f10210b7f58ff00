package model

import "time"

// Focus-area trends. Declining iff completion rate < 0.5, a deliberate
// single-threshold heuristic the insight copy depends on.
const (
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// Burnout risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// DayOfWeekPattern is the completion profile of one weekday inside the
// lookback window, recomputed on demand from task history.
type DayOfWeekPattern struct {
	DayOfWeek      time.Weekday
	TotalTasks     int
	CompletedTasks int
	CompletionRate float64
	LowConfidence  bool // too few samples to trust the rate
}

// WeekdayReport orders weekday patterns best-first.
type WeekdayReport struct {
	Days            []DayOfWeekPattern
	AvgTasksPerWeek float64
}

// TimeOfDayPattern is the completion profile of one hour of the day.
type TimeOfDayPattern struct {
	Hour           int
	TotalTasks     int
	CompletedTasks int
	CompletionRate float64
}

// TimeOfDayReport lists hourly patterns plus the peak hours: the top quartile
// of hours by completion rate (at least one), surfacing quality of focus time
// rather than raw volume.
type TimeOfDayReport struct {
	Hours     []TimeOfDayPattern
	PeakHours []int
}

// FocusAreaPattern is the completion profile of one focus-area label.
type FocusAreaPattern struct {
	FocusArea          string
	TotalTasks         int
	CompletedTasks     int
	CompletionRate     float64
	AvgDurationMinutes float64
	Trend              string
}

// BurnoutRisk is the derived risk snapshot over a baseline window and its
// recent sub-window.
type BurnoutRisk struct {
	Level       string
	Score       int // 0..100, higher is worse
	Indicators  []string
	IsDeclining bool
	HasRisk     bool
}

// Insight kinds, in orchestrator priority order.
const (
	InsightRest     = "rest"
	InsightDeepWork = "deep_work"
	InsightReEngage = "re_engage"
	InsightMomentum = "momentum"
)

// Insight is one actionable coaching message for the morning banner.
type Insight struct {
	Kind            string
	Title           string
	Message         string
	Confidence      int // 0..100
	SuggestedAction string
}
