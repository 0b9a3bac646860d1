package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusPlanned   TripStatus = "planned"
	TripStatusOngoing   TripStatus = "ongoing"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusDraft:   {TripStatusPlanned, TripStatusCancelled},
	TripStatusPlanned: {TripStatusDraft, TripStatusOngoing, TripStatusCancelled},
	TripStatusOngoing: {TripStatusCompleted, TripStatusCancelled},
}

func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusDraft, TripStatusPlanned, TripStatusOngoing, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a trip may move from s to next. Staying in
// the same status is always allowed.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range tripTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Trip is one planning session and the itinerary it produced. The itinerary
// is stored as an opaque JSON blob.
type Trip struct {
	BaseModel
	UserID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Title          string
	Destination    string `gorm:"not null"`
	Origin         string
	StartDate      time.Time `gorm:"type:date;not null"`
	EndDate        time.Time `gorm:"type:date;not null"`
	Budget         float64
	Currency       string `gorm:"size:3"`
	Travelers      int
	Adults         int
	Children       int
	PreferenceTags pq.StringArray `gorm:"type:text[]"`
	Notes          string
	Status         TripStatus       `gorm:"type:varchar(16);index"`
	Itinerary      datatypes.JSON   `gorm:"type:jsonb"`
	// Width must equal config.EmbeddingDimensions.
	Embedding      *pgvector.Vector `gorm:"type:vector(256)"`

	Expenses []Expense `gorm:"foreignKey:TripID"`
}
