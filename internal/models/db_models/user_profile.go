package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserProfile is keyed by the auth platform's user id.
type UserProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username    string    `gorm:"size:50"`
	AvatarURL   string
	Preferences datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   int64          `gorm:"autoCreateTime"`
	UpdatedAt   int64          `gorm:"autoUpdateTime"`
}
