package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"monthlyzen/internal/model"
	"monthlyzen/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, telegramID int64) *model.User {
	t.Helper()
	user := &model.User{TelegramID: telegramID, FirstName: "Test"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTask(t *testing.T, db *gorm.DB, userID uint, start time.Time, durationMin int, focusArea string, completed bool, resolutionIDs ...int64) *model.Task {
	t.Helper()
	if resolutionIDs == nil {
		resolutionIDs = []int64{}
	}
	task := &model.Task{
		UserID:        userID,
		Title:         "seeded",
		FocusArea:     focusArea,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(durationMin) * time.Minute),
		IsCompleted:   completed,
		ResolutionIDs: resolutionIDs,
	}
	if completed {
		done := start.Add(time.Duration(durationMin) * time.Minute)
		task.CompletedAt = &done
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
