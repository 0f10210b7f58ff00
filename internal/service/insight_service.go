package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"monthlyzen/internal/model"
)

// Insight confidence values per branch, part of the coaching contract.
const (
	confidenceBurnout   = 90
	confidenceDeclining = 75
	confidenceFallback  = 50
)

// InsightService composes the pattern and burnout analytics into a single
// headline insight for the morning banner. Analytics are best-effort: any
// internal failure degrades to the fallback insight instead of propagating,
// so a malformed data point can never break the banner.
type InsightService struct {
	patterns     *PatternService
	defaultWeeks int
	recentWeeks  int
	logger       *zap.Logger
}

func NewInsightService(patterns *PatternService, defaultWeeks, recentWeeks int, logger *zap.Logger) *InsightService {
	return &InsightService{
		patterns:     patterns,
		defaultWeeks: defaultWeeks,
		recentWeeks:  recentWeeks,
		logger:       logger,
	}
}

// MorningIntention picks one insight by priority: burnout rest > best-day
// deep work > declining focus area > generic momentum. Never returns an
// error; the fallback insight covers every failure path.
func (s *InsightService) MorningIntention(ctx context.Context, userID uint, now time.Time) model.Insight {
	insight, err := s.compute(ctx, userID, now)
	if err != nil {
		s.logger.Warn("insight computation degraded to fallback",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return fallbackInsight()
	}
	return insight
}

func (s *InsightService) compute(ctx context.Context, userID uint, now time.Time) (model.Insight, error) {
	baseline, err := s.patterns.CompletionWindow(ctx, userID, s.defaultWeeks, now)
	if err != nil {
		return model.Insight{}, err
	}
	recent, err := s.patterns.CompletionWindow(ctx, userID, s.recentWeeks, now)
	if err != nil {
		return model.Insight{}, err
	}

	risk := DetectBurnout(baseline, recent)
	if risk.Level == model.RiskHigh {
		return model.Insight{
			Kind:            model.InsightRest,
			Title:           "Time to recharge",
			Message:         "Your completion rate has been very low lately. Today, pick one small task and let the rest wait — recovery is progress too.",
			Confidence:      confidenceBurnout,
			SuggestedAction: "Schedule a rest block and complete just one easy task.",
		}, nil
	}

	weekdays, err := s.patterns.DayOfWeek(ctx, userID, s.defaultWeeks, now)
	if err != nil {
		return model.Insight{}, err
	}
	if len(weekdays.Days) > 0 {
		best := weekdays.Days[0]
		if best.DayOfWeek == now.Weekday() && !best.LowConfidence && best.CompletionRate > 0 {
			return model.Insight{
				Kind:            model.InsightDeepWork,
				Title:           fmt.Sprintf("%s is your power day", best.DayOfWeek),
				Message:         fmt.Sprintf("Historically you complete %d%% of what you schedule on %ss. Put your hardest work first today.", int(best.CompletionRate*100), best.DayOfWeek),
				Confidence:      int(best.CompletionRate * 100),
				SuggestedAction: "Block 90 minutes of deep work this morning.",
			}, nil
		}
	}

	focusAreas, err := s.patterns.FocusAreas(ctx, userID, s.defaultWeeks, now)
	if err != nil {
		return model.Insight{}, err
	}
	for _, area := range focusAreas {
		if area.Trend == model.TrendDeclining {
			return model.Insight{
				Kind:            model.InsightReEngage,
				Title:           fmt.Sprintf("%s needs attention", area.FocusArea),
				Message:         fmt.Sprintf("Tasks in %s have been slipping (%d%% completed recently). One small win there today rebuilds the habit.", area.FocusArea, int(area.CompletionRate*100)),
				Confidence:      confidenceDeclining,
				SuggestedAction: fmt.Sprintf("Start with the easiest open %s task.", area.FocusArea),
			}, nil
		}
	}

	return fallbackInsight(), nil
}

func fallbackInsight() model.Insight {
	return model.Insight{
		Kind:            model.InsightMomentum,
		Title:           "Keep the momentum",
		Message:         "You're on track. Pick the most important task on today's list and start there.",
		Confidence:      confidenceFallback,
		SuggestedAction: "Review today's plan and commit to the first task.",
	}
}
