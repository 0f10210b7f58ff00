package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"monthlyzen/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, telegramID int64) *model.User {
	t.Helper()
	user := &model.User{TelegramID: telegramID, FirstName: "Test"}
	require.NoError(t, db.Create(user).Error)
	return user
}
