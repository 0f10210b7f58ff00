package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monthlyzen/internal/config"
	"monthlyzen/internal/model"
	"monthlyzen/internal/repository"
)

func testQuotaConfig() config.QuotaConfig {
	return config.QuotaConfig{
		DefaultAllowance: 50,
		PeriodMonths:     1,
		MaxBoostAmount:   100,
	}
}

func TestCurrentCreatesAndRollsOver(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(repository.NewQuotaRepository(db), testQuotaConfig(), testLogger())
	user := createTestUser(t, db, 500)
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	quota, err := svc.Current(context.Background(), user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-08", quota.MonthYear)
	assert.Equal(t, 50, quota.TotalAllowed)

	// A month later the expired row is archived and a fresh one issued.
	later := now.AddDate(0, 1, 0)
	next, err := svc.Current(context.Background(), user.ID, later)
	require.NoError(t, err)
	assert.Equal(t, "2026-09", next.MonthYear)
	assert.Equal(t, 0, next.GenerationsUsed)

	history, err := svc.History(context.Background(), user.ID, 12, later)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2026-08", history[0].MonthYear)
}

func TestConsumeAndRefund(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(repository.NewQuotaRepository(db), testQuotaConfig(), testLogger())
	user := createTestUser(t, db, 501)
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	quota, err := svc.Consume(context.Background(), user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, quota.GenerationsUsed)

	require.NoError(t, svc.Refund(context.Background(), quota.ID))

	quota, err = svc.Current(context.Background(), user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 0, quota.GenerationsUsed)
}

func TestRequestIncreasePolicy(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuotaService(repository.NewQuotaRepository(db), testQuotaConfig(), testLogger())
	user := createTestUser(t, db, 502)
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

	_, err := svc.RequestIncrease(context.Background(), user.ID, 0, "a perfectly good reason", now)
	assert.Error(t, err)

	_, err = svc.RequestIncrease(context.Background(), user.ID, 101, "a perfectly good reason", now)
	assert.Error(t, err)

	_, err = svc.RequestIncrease(context.Background(), user.ID, 10, "short", now)
	assert.Error(t, err)

	// Whitespace padding does not satisfy the minimum reason length.
	_, err = svc.RequestIncrease(context.Background(), user.ID, 10, "   hi    ", now)
	assert.Error(t, err)

	quota, err := svc.RequestIncrease(context.Background(), user.ID, 10, "big launch this month", now)
	require.NoError(t, err)
	assert.Equal(t, 60, quota.TotalAllowed)
}

func TestHistoryClampsMonths(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewQuotaRepository(db)
	svc := NewQuotaService(repo, testQuotaConfig(), testLogger())
	user := createTestUser(t, db, 503)
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	months := []string{
		"2025-06", "2025-07", "2025-08", "2025-09", "2025-10", "2025-11", "2025-12",
		"2026-01", "2026-02", "2026-03", "2026-04", "2026-05", "2026-06", "2026-07",
	}
	for _, my := range months {
		start, _ := time.Parse("2006-01", my)
		require.NoError(t, db.Create(&model.QuotaHistory{
			UserID:      user.ID,
			MonthYear:   my,
			PeriodStart: start,
			PeriodEnd:   start.AddDate(0, 1, 0),
		}).Error)
	}

	entries, err := svc.History(context.Background(), user.ID, 24, now)
	require.NoError(t, err)
	assert.Len(t, entries, 12)
	assert.Equal(t, "2026-07", entries[0].MonthYear)

	entries, err = svc.History(context.Background(), user.ID, -3, now)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "2026-07", entries[0].MonthYear)
}

func TestSweepDueResets(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewQuotaRepository(db)
	svc := NewQuotaService(repo, testQuotaConfig(), testLogger())
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	lapsed := createTestUser(t, db, 504)
	require.NoError(t, db.Create(&model.GenerationQuota{
		UserID: lapsed.ID, MonthYear: "2026-07", TotalAllowed: 50, GenerationsUsed: 40,
		ResetsOn: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	fresh := createTestUser(t, db, 505)
	require.NoError(t, db.Create(&model.GenerationQuota{
		UserID: fresh.ID, MonthYear: "2026-08", TotalAllowed: 50,
		ResetsOn: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	require.NoError(t, svc.SweepDueResets(context.Background(), now))

	var active model.GenerationQuota
	require.NoError(t, db.Where("user_id = ? AND month_year = ?", lapsed.ID, "2026-08").First(&active).Error)
	assert.Equal(t, 0, active.GenerationsUsed)

	var histories int64
	require.NoError(t, db.Model(&model.QuotaHistory{}).Where("user_id = ?", fresh.ID).Count(&histories).Error)
	assert.EqualValues(t, 0, histories)
}

func TestDeriveView(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	resetsOn := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		used       int
		allowed    int
		wantStatus string
		wantDays   int
	}{
		{"fresh quota is active", 0, 50, model.QuotaStatusActive, 17},
		{"79 percent is still active", 39, 50, model.QuotaStatusActive, 17},
		{"80 percent is low", 40, 50, model.QuotaStatusLow, 17},
		{"spent allowance is exceeded", 50, 50, model.QuotaStatusExceeded, 17},
		{"over-spent is exceeded", 51, 50, model.QuotaStatusExceeded, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := DeriveView(&model.GenerationQuota{
				MonthYear:       "2026-08",
				TotalAllowed:    tt.allowed,
				GenerationsUsed: tt.used,
				ResetsOn:        resetsOn,
			}, now)
			assert.Equal(t, tt.wantStatus, view.Status)
			assert.Equal(t, tt.wantDays, view.DaysUntilReset)
			assert.Equal(t, tt.allowed-min(tt.used, tt.allowed), view.Remaining)
		})
	}

	// A lapsed boundary never reports negative days.
	view := DeriveView(&model.GenerationQuota{
		TotalAllowed: 50,
		ResetsOn:     now.AddDate(0, 0, -2),
	}, now)
	assert.Equal(t, 0, view.DaysUntilReset)
}
