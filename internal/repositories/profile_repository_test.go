package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	dbm "travelmind/internal/models/db_models"
)

func TestProfileRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newTestDB(t))
	userID := uuid.New()

	got, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Upsert(ctx, &dbm.UserProfile{
		UserID:      userID,
		Username:    "wanderer",
		Preferences: datatypes.JSON(`{"pace":"slow"}`),
	}))
	require.NoError(t, repo.Upsert(ctx, &dbm.UserProfile{
		UserID:      userID,
		Username:    "wanderer2",
		Preferences: datatypes.JSON(`{"pace":"fast"}`),
	}))

	got, err = repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "wanderer2", got.Username)
	assert.JSONEq(t, `{"pace":"fast"}`, string(got.Preferences))

	require.NoError(t, repo.UpdateAvatar(ctx, userID, "https://cdn.example/a.png"))
	got, err = repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/a.png", got.AvatarURL)
}
