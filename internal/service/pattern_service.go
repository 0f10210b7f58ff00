package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"monthlyzen/internal/model"
	"monthlyzen/internal/repository"
)

// PatternService runs the windowed aggregations behind the coaching
// analytics. All methods are read-only and safe for concurrent callers;
// results are deterministic for unchanged task history.
type PatternService struct {
	taskRepo  *repository.TaskRepository
	minSample int
	logger    *zap.Logger
}

func NewPatternService(taskRepo *repository.TaskRepository, minSample int, logger *zap.Logger) *PatternService {
	if minSample <= 0 {
		minSample = 3
	}
	return &PatternService{taskRepo: taskRepo, minSample: minSample, logger: logger}
}

func lookbackStart(now time.Time, weeks int) time.Time {
	return now.AddDate(0, 0, -7*weeks)
}

// DayOfWeek aggregates completion rates per weekday over the lookback window,
// best day first. Days with fewer than the minimum sample are flagged
// low-confidence rather than dropped.
func (s *PatternService) DayOfWeek(ctx context.Context, userID uint, weeks int, now time.Time) (*model.WeekdayReport, error) {
	rows, err := s.taskRepo.WeekdayCounts(ctx, userID, lookbackStart(now, weeks))
	if err != nil {
		return nil, err
	}

	report := &model.WeekdayReport{Days: make([]model.DayOfWeekPattern, 0, len(rows))}
	var totalTasks int64
	for _, row := range rows {
		totalTasks += row.Total
		report.Days = append(report.Days, model.DayOfWeekPattern{
			DayOfWeek:      time.Weekday(row.Weekday),
			TotalTasks:     int(row.Total),
			CompletedTasks: int(row.Completed),
			CompletionRate: rate(row.Completed, row.Total),
			LowConfidence:  row.Total < int64(s.minSample),
		})
	}

	sort.SliceStable(report.Days, func(i, j int) bool {
		if report.Days[i].CompletionRate != report.Days[j].CompletionRate {
			return report.Days[i].CompletionRate > report.Days[j].CompletionRate
		}
		return report.Days[i].DayOfWeek < report.Days[j].DayOfWeek
	})

	if weeks > 0 {
		report.AvgTasksPerWeek = float64(totalTasks) / float64(weeks)
	}
	return report, nil
}

// TimeOfDay aggregates completion rates per hour of day. Peak hours are the
// top 25% of hours by completion rate, at least one. Quality of focus time,
// not raw volume.
func (s *PatternService) TimeOfDay(ctx context.Context, userID uint, weeks int, now time.Time) (*model.TimeOfDayReport, error) {
	rows, err := s.taskRepo.HourCounts(ctx, userID, lookbackStart(now, weeks))
	if err != nil {
		return nil, err
	}

	report := &model.TimeOfDayReport{Hours: make([]model.TimeOfDayPattern, 0, len(rows))}
	for _, row := range rows {
		report.Hours = append(report.Hours, model.TimeOfDayPattern{
			Hour:           row.Hour,
			TotalTasks:     int(row.Total),
			CompletedTasks: int(row.Completed),
			CompletionRate: rate(row.Completed, row.Total),
		})
	}

	sort.SliceStable(report.Hours, func(i, j int) bool {
		if report.Hours[i].CompletionRate != report.Hours[j].CompletionRate {
			return report.Hours[i].CompletionRate > report.Hours[j].CompletionRate
		}
		return report.Hours[i].Hour < report.Hours[j].Hour
	})

	if len(report.Hours) > 0 {
		peakCount := int(math.Ceil(float64(len(report.Hours)) / 4))
		if peakCount < 1 {
			peakCount = 1
		}
		peaks := make([]int, 0, peakCount)
		for _, h := range report.Hours[:peakCount] {
			peaks = append(peaks, h.Hour)
		}
		sort.Ints(peaks)
		report.PeakHours = peaks
	}
	return report, nil
}

// FocusAreas aggregates completion rates and average durations per focus-area
// label. Trend is the documented single-threshold heuristic: declining iff
// the rate is below 0.5.
func (s *PatternService) FocusAreas(ctx context.Context, userID uint, weeks int, now time.Time) ([]model.FocusAreaPattern, error) {
	rows, err := s.taskRepo.FocusAreaCounts(ctx, userID, lookbackStart(now, weeks))
	if err != nil {
		return nil, err
	}

	patterns := make([]model.FocusAreaPattern, 0, len(rows))
	for _, row := range rows {
		completionRate := rate(row.Completed, row.Total)
		trend := model.TrendStable
		if completionRate < 0.5 {
			trend = model.TrendDeclining
		}
		patterns = append(patterns, model.FocusAreaPattern{
			FocusArea:          row.FocusArea,
			TotalTasks:         int(row.Total),
			CompletedTasks:     int(row.Completed),
			CompletionRate:     completionRate,
			AvgDurationMinutes: row.AvgDuration,
			Trend:              trend,
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].CompletionRate != patterns[j].CompletionRate {
			return patterns[i].CompletionRate > patterns[j].CompletionRate
		}
		return patterns[i].FocusArea < patterns[j].FocusArea
	})
	return patterns, nil
}

// CompletionWindow returns the aggregated stats for one lookback window,
// feeding the burnout detector.
func (s *PatternService) CompletionWindow(ctx context.Context, userID uint, weeks int, now time.Time) (WindowStats, error) {
	total, completed, err := s.taskRepo.CompletionStats(ctx, userID, lookbackStart(now, weeks))
	if err != nil {
		return WindowStats{}, err
	}
	return WindowStats{
		CompletionRate: rate(completed, total),
		TaskCount:      int(total),
	}, nil
}

// rate guards the divide-by-zero: no tasks means rate 0, flagged elsewhere as
// low-confidence.
func rate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}
