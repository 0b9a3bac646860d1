package utils

import "errors"

var (
	ErrTripNotFound            = errors.New("trip not found")
	ErrExpenseNotFound         = errors.New("expense not found")
	ErrProfileNotFound         = errors.New("profile not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidPage             = errors.New("invalid page parameter")
	ErrInvalidPageSize         = errors.New("invalid page size parameter")
	ErrDatabaseError           = errors.New("database error")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid trip status transition")
	ErrDayOutOfRange           = errors.New("itinerary day out of range")
	ErrActivityOutOfRange      = errors.New("itinerary activity out of range")
	ErrNoItinerary             = errors.New("trip has no itinerary")
	ErrLLMUnavailable          = errors.New("llm provider unavailable")
	ErrItineraryMalformed      = errors.New("llm returned malformed itinerary")
	ErrSpeechFailed            = errors.New("speech recognition failed")
	ErrMapFailed               = errors.New("map provider request failed")
	ErrStorageFailed           = errors.New("object storage request failed")
	ErrUnsupportedMedia        = errors.New("unsupported media type")
	ErrPayloadTooLarge         = errors.New("payload too large")
	ErrRateLimited             = errors.New("rate limited")
)
