package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monthlyzen/internal/model"
	"monthlyzen/internal/repository"
)

func TestDayOfWeekOrdersBestDayFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatternService(repository.NewTaskRepository(db), 3, testLogger())
	user := createTestUser(t, db, 300)

	// now is a Friday; the window covers the prior four weeks.
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	for i := 0; i < 10; i++ {
		createTask(t, db, user.ID, monday, 30, "work", true)
	}
	for i := 0; i < 10; i++ {
		createTask(t, db, user.ID, tuesday, 30, "work", i < 2)
	}

	report, err := svc.DayOfWeek(context.Background(), user.ID, 4, now)
	require.NoError(t, err)
	require.Len(t, report.Days, 2)

	best := report.Days[0]
	assert.Equal(t, time.Monday, best.DayOfWeek)
	assert.Equal(t, 10, best.TotalTasks)
	assert.InDelta(t, 1.0, best.CompletionRate, 0.001)
	assert.False(t, best.LowConfidence)

	second := report.Days[1]
	assert.Equal(t, time.Tuesday, second.DayOfWeek)
	assert.InDelta(t, 0.2, second.CompletionRate, 0.001)

	assert.InDelta(t, 5.0, report.AvgTasksPerWeek, 0.001)
}

func TestDayOfWeekFlagsThinSamples(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatternService(repository.NewTaskRepository(db), 3, testLogger())
	user := createTestUser(t, db, 301)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// Two tasks on one weekday: below the minimum sample of three.
	wednesday := time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC)
	createTask(t, db, user.ID, wednesday, 30, "work", true)
	createTask(t, db, user.ID, wednesday, 30, "work", true)

	report, err := svc.DayOfWeek(context.Background(), user.ID, 4, now)
	require.NoError(t, err)
	require.Len(t, report.Days, 1)
	assert.True(t, report.Days[0].LowConfidence)
	assert.InDelta(t, 1.0, report.Days[0].CompletionRate, 0.001)
}

func TestTimeOfDayPeakHours(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatternService(repository.NewTaskRepository(db), 3, testLogger())
	user := createTestUser(t, db, 302)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	// Five distinct hours with descending completion rates. ceil(5/4) = 2
	// peaks: the 9:00 and 7:00 slots, reported in ascending hour order.
	seed := []struct {
		hour      int
		total     int
		completed int
	}{
		{9, 4, 4},
		{7, 4, 3},
		{14, 4, 2},
		{16, 4, 1},
		{20, 4, 0},
	}
	for _, s := range seed {
		for i := 0; i < s.total; i++ {
			createTask(t, db, user.ID, day.Add(time.Duration(s.hour)*time.Hour), 30, "work", i < s.completed)
		}
	}

	report, err := svc.TimeOfDay(context.Background(), user.ID, 4, now)
	require.NoError(t, err)
	require.Len(t, report.Hours, 5)
	assert.Equal(t, 9, report.Hours[0].Hour)
	assert.Equal(t, []int{7, 9}, report.PeakHours)
}

func TestTimeOfDayEmptyHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatternService(repository.NewTaskRepository(db), 3, testLogger())
	user := createTestUser(t, db, 303)

	report, err := svc.TimeOfDay(context.Background(), user.ID, 4, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, report.Hours)
	assert.Empty(t, report.PeakHours)
}

func TestFocusAreasTrend(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatternService(repository.NewTaskRepository(db), 3, testLogger())
	user := createTestUser(t, db, 304)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		createTask(t, db, user.ID, day, 30, "fitness", i < 3)
	}
	for i := 0; i < 4; i++ {
		createTask(t, db, user.ID, day, 60, "writing", i < 1)
	}

	patterns, err := svc.FocusAreas(context.Background(), user.ID, 4, now)
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	assert.Equal(t, "fitness", patterns[0].FocusArea)
	assert.Equal(t, model.TrendStable, patterns[0].Trend)
	assert.InDelta(t, 30.0, patterns[0].AvgDurationMinutes, 0.01)

	assert.Equal(t, "writing", patterns[1].FocusArea)
	assert.Equal(t, model.TrendDeclining, patterns[1].Trend)
	assert.InDelta(t, 0.25, patterns[1].CompletionRate, 0.001)
}

func TestCompletionWindowRespectsLookback(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatternService(repository.NewTaskRepository(db), 3, testLogger())
	user := createTestUser(t, db, 305)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	createTask(t, db, user.ID, now.AddDate(0, 0, -3), 30, "work", true)
	createTask(t, db, user.ID, now.AddDate(0, 0, -10), 30, "work", false)
	// Outside a two-week window.
	createTask(t, db, user.ID, now.AddDate(0, 0, -20), 30, "work", false)

	stats, err := svc.CompletionWindow(context.Background(), user.ID, 2, now)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TaskCount)
	assert.InDelta(t, 0.5, stats.CompletionRate, 0.001)

	empty, err := svc.CompletionWindow(context.Background(), createTestUser(t, db, 306).ID, 2, now)
	require.NoError(t, err)
	assert.Zero(t, empty.TaskCount)
	assert.Zero(t, empty.CompletionRate)
}
