package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"monthlyzen/internal/config"
	"monthlyzen/internal/model"
	"monthlyzen/internal/repository"
)

const (
	lowQuotaThresholdPercent = 80
	minIncreaseReasonLength  = 10
	maxHistoryMonths         = 12
)

// QuotaService wraps the quota store with period bookkeeping, derivation, and
// the business policy caps the store itself does not enforce.
type QuotaService struct {
	quotaRepo *repository.QuotaRepository
	cfg       config.QuotaConfig
	logger    *zap.Logger
}

func NewQuotaService(quotaRepo *repository.QuotaRepository, cfg config.QuotaConfig, logger *zap.Logger) *QuotaService {
	return &QuotaService{quotaRepo: quotaRepo, cfg: cfg, logger: logger}
}

// Current returns the user's quota for the running period, lazily creating it
// and rolling over an expired one first.
func (s *QuotaService) Current(ctx context.Context, userID uint, now time.Time) (*model.GenerationQuota, error) {
	return s.quotaRepo.GetOrCreateCurrent(ctx, userID, now, s.cfg.DefaultAllowance, s.cfg.PeriodMonths)
}

// Consume takes one generation from the user's current quota. Returns
// repository.ErrQuotaExhausted when the allowance is spent; an expected
// outcome, surfaced to the user and never retried.
func (s *QuotaService) Consume(ctx context.Context, userID uint, now time.Time) (*model.GenerationQuota, error) {
	quota, err := s.Current(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return s.quotaRepo.Decrement(ctx, quota.ID)
}

// Refund returns one generation after a failed downstream call.
func (s *QuotaService) Refund(ctx context.Context, quotaID uint) error {
	return s.quotaRepo.Refund(ctx, quotaID)
}

// RequestIncrease tops up the active allowance. Policy: amount 1..MaxBoost,
// reason at least 10 characters.
func (s *QuotaService) RequestIncrease(ctx context.Context, userID uint, amount int, reason string, now time.Time) (*model.GenerationQuota, error) {
	if amount < 1 || amount > s.cfg.MaxBoostAmount {
		return nil, fmt.Errorf("increase amount must be between 1 and %d", s.cfg.MaxBoostAmount)
	}
	if len(strings.TrimSpace(reason)) < minIncreaseReasonLength {
		return nil, fmt.Errorf("increase reason must be at least %d characters", minIncreaseReasonLength)
	}

	// Make sure the top-up lands on the current period, not an expired row.
	if _, err := s.Current(ctx, userID, now); err != nil {
		return nil, err
	}

	quota, err := s.quotaRepo.RequestIncrease(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	s.logger.Info("quota increase granted",
		zap.Uint("user_id", userID),
		zap.Int("amount", amount),
		zap.String("reason", strings.TrimSpace(reason)),
	)
	return quota, nil
}

// History returns the archived periods from the last months (clamped to
// 1..12) counted back from now, newest first.
func (s *QuotaService) History(ctx context.Context, userID uint, months int, now time.Time) ([]model.QuotaHistory, error) {
	if months < 1 {
		months = 1
	}
	if months > maxHistoryMonths {
		months = maxHistoryMonths
	}
	return s.quotaRepo.History(ctx, userID, now.AddDate(0, -months, 0))
}

// SweepDueResets rolls over every quota whose reset boundary has passed.
// Intended to run from the scheduler; safe to run concurrently with user
// traffic thanks to the exactly-once rollover.
func (s *QuotaService) SweepDueResets(ctx context.Context, now time.Time) error {
	due, err := s.quotaRepo.ListDue(ctx, now)
	if err != nil {
		return err
	}
	for i := range due {
		if _, err := s.quotaRepo.CheckAndReset(ctx, &due[i], now, s.cfg.DefaultAllowance, s.cfg.PeriodMonths); err != nil {
			s.logger.Warn("quota rollover failed",
				zap.Uint("user_id", due[i].UserID),
				zap.String("month_year", due[i].MonthYear),
				zap.Error(err),
			)
			continue
		}
	}
	if len(due) > 0 {
		s.logger.Info("quota rollover sweep finished", zap.Int("rolled_over", len(due)))
	}
	return nil
}

// DeriveView computes the user-facing snapshot. Status is derived, never
// stored: exceeded when the allowance is spent, low at 80% usage or above,
// active otherwise.
func DeriveView(quota *model.GenerationQuota, now time.Time) model.QuotaView {
	status := model.QuotaStatusActive
	switch {
	case quota.GenerationsUsed >= quota.TotalAllowed:
		status = model.QuotaStatusExceeded
	case quota.UsagePercent() >= lowQuotaThresholdPercent:
		status = model.QuotaStatusLow
	}

	days := int(math.Ceil(quota.ResetsOn.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}

	return model.QuotaView{
		MonthYear:      quota.MonthYear,
		TotalAllowed:   quota.TotalAllowed,
		Used:           quota.GenerationsUsed,
		Remaining:      quota.Remaining(),
		UsagePercent:   quota.UsagePercent(),
		Status:         status,
		ResetsOn:       quota.ResetsOn,
		DaysUntilReset: days,
	}
}
