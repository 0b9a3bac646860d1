package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	dbm "travelmind/internal/models/db_models"
)

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*dbm.UserProfile, error)
	Upsert(ctx context.Context, profile *dbm.UserProfile) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*dbm.UserProfile, error) {
	var profile dbm.UserProfile
	err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert inserts the profile or overwrites username, avatar and preferences.
func (r *profileRepository) Upsert(ctx context.Context, profile *dbm.UserProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "avatar_url", "preferences", "updated_at"}),
	}).Create(profile).Error
}

func (r *profileRepository) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) error {
	return r.db.WithContext(ctx).Model(&dbm.UserProfile{}).
		Where("user_id = ?", userID).
		Update("avatar_url", avatarURL).Error
}
