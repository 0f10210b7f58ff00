package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"monthlyzen/internal/model"
)

func TestDetectBurnout(t *testing.T) {
	tests := []struct {
		name     string
		baseline WindowStats
		recent   WindowStats
		want     model.BurnoutRisk
	}{
		{
			name:     "healthy history is low risk",
			baseline: WindowStats{CompletionRate: 0.8, TaskCount: 20},
			recent:   WindowStats{CompletionRate: 0.85, TaskCount: 10},
			want: model.BurnoutRisk{
				Level:   model.RiskLow,
				Score:   20,
				HasRisk: false,
			},
		},
		{
			name:     "very low baseline is high risk",
			baseline: WindowStats{CompletionRate: 0.1, TaskCount: 20},
			recent:   WindowStats{CompletionRate: 0.1, TaskCount: 10},
			want: model.BurnoutRisk{
				Level:      model.RiskHigh,
				Score:      90,
				Indicators: []string{IndicatorLowCompletion},
				HasRisk:    true,
			},
		},
		{
			name:     "declining medium baseline stacks indicators",
			baseline: WindowStats{CompletionRate: 0.3, TaskCount: 30},
			recent:   WindowStats{CompletionRate: 0.1, TaskCount: 8},
			want: model.BurnoutRisk{
				Level:       model.RiskMedium,
				Score:       70,
				Indicators:  []string{IndicatorLowCompletion, IndicatorDeclining},
				IsDeclining: true,
				HasRisk:     true,
			},
		},
		{
			name:     "decline needs more than five recent tasks",
			baseline: WindowStats{CompletionRate: 0.5, TaskCount: 30},
			recent:   WindowStats{CompletionRate: 0.2, TaskCount: 5},
			want: model.BurnoutRisk{
				Level:   model.RiskLow,
				Score:   50,
				HasRisk: false,
			},
		},
		{
			name:     "declining below 0.6 baseline flags risk at low level",
			baseline: WindowStats{CompletionRate: 0.5, TaskCount: 30},
			recent:   WindowStats{CompletionRate: 0.3, TaskCount: 10},
			want: model.BurnoutRisk{
				Level:       model.RiskLow,
				Score:       50,
				Indicators:  []string{IndicatorDeclining},
				IsDeclining: true,
				HasRisk:     true,
			},
		},
		{
			name:     "declining above 0.6 baseline stays risk-free",
			baseline: WindowStats{CompletionRate: 0.7, TaskCount: 30},
			recent:   WindowStats{CompletionRate: 0.6, TaskCount: 10},
			want: model.BurnoutRisk{
				Level:       model.RiskLow,
				Score:       30,
				Indicators:  []string{IndicatorDeclining},
				IsDeclining: true,
				HasRisk:     false,
			},
		},
		{
			name:     "heavy recent workload adds the workload indicator",
			baseline: WindowStats{CompletionRate: 0.9, TaskCount: 60},
			recent:   WindowStats{CompletionRate: 0.9, TaskCount: 25},
			want: model.BurnoutRisk{
				Level:      model.RiskLow,
				Score:      10,
				Indicators: []string{IndicatorHighWorkload},
				HasRisk:    false,
			},
		},
		{
			name:     "empty history scores worst but flags nothing declining",
			baseline: WindowStats{},
			recent:   WindowStats{},
			want: model.BurnoutRisk{
				Level:      model.RiskHigh,
				Score:      100,
				Indicators: []string{IndicatorLowCompletion},
				HasRisk:    true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectBurnout(tt.baseline, tt.recent)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBurnoutScoreClamped(t *testing.T) {
	assert.Equal(t, 0, burnoutScore(1.5))
	assert.Equal(t, 100, burnoutScore(-0.2))
	assert.Equal(t, 37, burnoutScore(0.634))
}
