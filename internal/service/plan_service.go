package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"monthlyzen/internal/llm"
	"monthlyzen/internal/model"
	"monthlyzen/internal/prompt"
	"monthlyzen/internal/repository"
)

// PlanGenerator is the external LLM collaborator. Satisfied by
// llm.GeminiClient; stubbed in tests.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, systemPrompt, userPrompt string) (*llm.PlanDocument, error)
}

// PlanRequest is what a user asks for when generating a month.
type PlanRequest struct {
	Goal              string
	Complexity        string
	FocusArea         string
	WeekendPreference string
	Commitments       []prompt.Commitment
}

// PlanService is the quota gate around plan generation: every generation
// consumes one unit atomically before the LLM is called, and a failed call
// refunds the unit.
type PlanService struct {
	quotaSvc       *QuotaService
	planRepo       *repository.PlanRepository
	resolutionRepo *repository.ResolutionRepository
	generator      PlanGenerator
	logger         *zap.Logger
}

func NewPlanService(quotaSvc *QuotaService, planRepo *repository.PlanRepository, resolutionRepo *repository.ResolutionRepository, generator PlanGenerator, logger *zap.Logger) *PlanService {
	return &PlanService{
		quotaSvc:       quotaSvc,
		planRepo:       planRepo,
		resolutionRepo: resolutionRepo,
		generator:      generator,
		logger:         logger,
	}
}

// Generate runs the full gated flow: consume quota, build prompts, call the
// generator, persist the plan and its tasks. ErrQuotaExhausted passes through
// untouched so the surface can show the quota message; it is never retried.
func (s *PlanService) Generate(ctx context.Context, user *model.User, req PlanRequest, now time.Time) (*model.Plan, error) {
	if req.Goal == "" {
		return nil, fmt.Errorf("goal is required")
	}
	if s.generator == nil {
		return nil, fmt.Errorf("plan generation is not configured")
	}

	quota, err := s.quotaSvc.Consume(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}

	yearly, err := s.resolutionRepo.ListActiveByType(ctx, user.ID, model.ResolutionYearly)
	if err != nil {
		s.refund(ctx, quota.ID)
		return nil, err
	}

	targets := make([]prompt.ResolutionTarget, 0, len(yearly))
	for _, res := range yearly {
		targets = append(targets, prompt.ResolutionTarget{
			Title:       res.Text,
			Category:    res.Category,
			TargetCount: res.TargetCount,
		})
	}

	monthYear := repository.MonthKey(now)
	userPrompt := prompt.BuildPlanPrompt(prompt.PlanInput{
		Goal:              req.Goal,
		Complexity:        req.Complexity,
		FocusArea:         req.FocusArea,
		WeekendPreference: req.WeekendPreference,
		StartDate:         now,
		Commitments:       req.Commitments,
		Resolutions:       targets,
	}, monthYear)
	systemPrompt := prompt.BuildSystemPrompt(prompt.SystemInput{
		CoachName:         user.CoachName,
		Tone:              user.CoachTone,
		Complexity:        req.Complexity,
		WeekendPreference: req.WeekendPreference,
	})

	doc, err := s.generator.GeneratePlan(ctx, systemPrompt, userPrompt)
	if err != nil {
		s.refund(ctx, quota.ID)
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	plan := &model.Plan{
		UserID:      user.ID,
		MonthYear:   monthYear,
		Goal:        req.Goal,
		Summary:     doc.MonthlySummary,
		GeneratedAt: now,
	}
	tasks := s.scheduleTasks(doc, user.ID, now)

	if err := s.planRepo.CreateWithTasks(ctx, plan, tasks); err != nil {
		s.refund(ctx, quota.ID)
		return nil, err
	}

	s.logger.Info("plan generated",
		zap.Uint("user_id", user.ID),
		zap.String("month_year", monthYear),
		zap.Int("tasks", len(tasks)),
		zap.Int("quota_remaining", quota.Remaining()),
	)
	return plan, nil
}

func (s *PlanService) refund(ctx context.Context, quotaID uint) {
	if err := s.quotaSvc.Refund(ctx, quotaID); err != nil {
		s.logger.Warn("quota refund failed", zap.Uint("quota_id", quotaID), zap.Error(err))
	}
}

// scheduleTasks maps the document's week/day-name structure onto concrete
// dates counted from now. Malformed entries are skipped, not fatal: a plan
// with a few dropped tasks beats no plan.
func (s *PlanService) scheduleTasks(doc *llm.PlanDocument, userID uint, now time.Time) []model.Task {
	var tasks []model.Task
	for _, week := range doc.WeeklyBreakdown {
		if week.Week < 1 {
			continue
		}
		weekStart := now.AddDate(0, 0, 7*(week.Week-1))
		for dayName, planned := range week.DailyTasks {
			weekday, ok := weekdayByName[dayName]
			if !ok {
				s.logger.Warn("unknown day name in plan document", zap.String("day", dayName))
				continue
			}
			date := nextWeekday(weekStart, weekday)
			for _, p := range planned {
				start, err := combine(date, p.StartTime)
				if err != nil {
					s.logger.Warn("bad start time in plan document", zap.String("value", p.StartTime))
					continue
				}
				end, err := combine(date, p.EndTime)
				if err != nil || !end.After(start) {
					s.logger.Warn("bad end time in plan document", zap.String("value", p.EndTime))
					continue
				}
				tasks = append(tasks, model.Task{
					UserID:           userID,
					Title:            p.TaskDescription,
					FocusArea:        p.FocusArea,
					DifficultyLevel:  p.DifficultyLevel,
					StartTime:        start,
					EndTime:          end,
					SchedulingReason: p.SchedulingReason,
					ResolutionIDs:    []int64{},
				})
			}
		}
	}
	return tasks
}

var weekdayByName = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// nextWeekday finds the first occurrence of weekday on or after from.
func nextWeekday(from time.Time, weekday time.Weekday) time.Time {
	offset := (int(weekday) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, offset)
}

func combine(date time.Time, hhmm string) (time.Time, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC), nil
}

// IsQuotaExhausted reports whether err is the expected out-of-quota outcome.
func IsQuotaExhausted(err error) bool {
	return errors.Is(err, repository.ErrQuotaExhausted)
}
