package service

import (
	"math"

	"monthlyzen/internal/model"
)

// Indicator labels are rendered verbatim in insight text; they are part of
// the public contract, as are the thresholds below.
const (
	IndicatorLowCompletion = "Low completion rate"
	IndicatorDeclining     = "Declining productivity"
	IndicatorHighWorkload  = "High workload"
)

const (
	burnoutHighThreshold    = 0.2
	burnoutMediumThreshold  = 0.4
	decliningSampleMinimum  = 5
	highWorkloadRecentTasks = 20
)

// WindowStats is the aggregated completion profile of one time window.
type WindowStats struct {
	CompletionRate float64
	TaskCount      int
}

// DetectBurnout derives a risk snapshot from a baseline window and its recent
// sub-window. Pure function: callers may snapshot the result but nothing is
// persisted here.
func DetectBurnout(baseline, recent WindowStats) model.BurnoutRisk {
	isDeclining := recent.CompletionRate < baseline.CompletionRate &&
		recent.TaskCount > decliningSampleMinimum

	level := model.RiskLow
	switch {
	case baseline.CompletionRate < burnoutHighThreshold:
		level = model.RiskHigh
	case baseline.CompletionRate < burnoutMediumThreshold:
		level = model.RiskMedium
	}

	hasRisk := level != model.RiskLow || (isDeclining && baseline.CompletionRate < 0.6)

	var indicators []string
	if baseline.CompletionRate < burnoutMediumThreshold {
		indicators = append(indicators, IndicatorLowCompletion)
	}
	if isDeclining {
		indicators = append(indicators, IndicatorDeclining)
	}
	if recent.TaskCount > highWorkloadRecentTasks {
		indicators = append(indicators, IndicatorHighWorkload)
	}

	return model.BurnoutRisk{
		Level:       level,
		Score:       burnoutScore(baseline.CompletionRate),
		Indicators:  indicators,
		IsDeclining: isDeclining,
		HasRisk:     hasRisk,
	}
}

// burnoutScore maps the baseline completion rate onto 0..100, higher worse.
func burnoutScore(baselineRate float64) int {
	score := int(math.Round((1 - baselineRate) * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
