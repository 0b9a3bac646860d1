package request_models

import "travelmind/internal/models/response_models"

type ReplaceItineraryRequest struct {
	Itinerary response_models.Itinerary `json:"itinerary" binding:"required"`
}

// ActivityPatch merges onto an existing activity; nil fields are kept.
type ActivityPatch struct {
	Time          *string  `json:"time"`
	EndTime       *string  `json:"end_time"`
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Location      *string  `json:"location"`
	Type          *string  `json:"type"`
	EstimatedCost *float64 `json:"estimated_cost"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
}

type AddActivityRequest struct {
	Activity response_models.Activity `json:"activity" binding:"required"`
	// Position is the index to insert at; appended when nil.
	Position *int `json:"position"`
}

type MoveActivityRequest struct {
	FromDay   int `json:"from_day" binding:"required,gte=1"`
	FromIndex int `json:"from_index" binding:"gte=0"`
	ToDay     int `json:"to_day" binding:"required,gte=1"`
	ToIndex   int `json:"to_index" binding:"gte=0"`
}
