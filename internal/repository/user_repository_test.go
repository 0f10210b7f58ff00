package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertFromTelegram(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	created, err := repo.UpsertFromTelegram(context.Background(), 12345, "Ada", "Lovelace", "ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", created.FirstName)

	// A repeat upsert refreshes the profile without duplicating the row.
	updated, err := repo.UpsertFromTelegram(context.Background(), 12345, "Ada", "L", "ada_l")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	found, err := repo.FindByTelegramID(context.Background(), 12345)
	require.NoError(t, err)
	assert.Equal(t, "L", found.LastName)
	assert.Equal(t, "ada_l", found.Username)

	users, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUpsertPreservesCoachPersona(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.UpsertFromTelegram(context.Background(), 24680, "Kim", "", "kim")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateCoach(context.Background(), user.ID, "Zen", "analytical"))

	// A later message with a changed profile refreshes the profile columns
	// but leaves the coach persona alone.
	_, err = repo.UpsertFromTelegram(context.Background(), 24680, "Kim", "", "kim_new")
	require.NoError(t, err)

	found, err := repo.FindByTelegramID(context.Background(), 24680)
	require.NoError(t, err)
	assert.Equal(t, "kim_new", found.Username)
	assert.Equal(t, "Zen", found.CoachName)
	assert.Equal(t, "analytical", found.CoachTone)
}

func TestUpdateCoach(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.UpsertFromTelegram(context.Background(), 67890, "Sam", "", "")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateCoach(context.Background(), user.ID, "Atlas", "direct"))

	found, err := repo.FindByTelegramID(context.Background(), 67890)
	require.NoError(t, err)
	assert.Equal(t, "Atlas", found.CoachName)
	assert.Equal(t, "direct", found.CoachTone)
}
