package utils

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceIDOf(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondErrorWithData(c, code, message, nil)
}

func RespondErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

type errorMapping struct {
	target  error
	code    int
	message string
}

var serviceErrors = []errorMapping{
	{ErrTripNotFound, http.StatusNotFound, "Trip not found"},
	{ErrExpenseNotFound, http.StatusNotFound, "Expense not found"},
	{ErrProfileNotFound, http.StatusNotFound, "Profile not found"},
	{ErrNoItinerary, http.StatusConflict, "Trip has no itinerary yet"},
	{ErrInvalidPage, http.StatusBadRequest, "Page must be greater than 0"},
	{ErrInvalidPageSize, http.StatusBadRequest, "Page size must be between 1 and 100"},
	{ErrInvalidStatusTransition, http.StatusConflict, "Trip status transition not allowed"},
	{ErrDayOutOfRange, http.StatusBadRequest, "Day out of range"},
	{ErrActivityOutOfRange, http.StatusBadRequest, "Activity index out of range"},
	{ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "Unsupported media type"},
	{ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "Payload too large"},
	{ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{ErrForbidden, http.StatusForbidden, "Forbidden"},
	{ErrRateLimited, http.StatusTooManyRequests, "Too many requests"},
	{ErrItineraryMalformed, http.StatusBadGateway, "Could not read a structured plan from the AI response"},
	{ErrLLMUnavailable, http.StatusBadGateway, "AI provider unavailable"},
	{ErrSpeechFailed, http.StatusBadGateway, "Speech recognition failed"},
	{ErrMapFailed, http.StatusBadGateway, "Map provider request failed"},
	{ErrStorageFailed, http.StatusBadGateway, "File storage request failed"},
}

// HandleServiceError maps a service error onto the response envelope. The
// wrapped error text is only exposed for client errors.
func HandleServiceError(c *gin.Context, err error) {
	HandleServiceErrorWithData(c, err, nil)
}

func HandleServiceErrorWithData(c *gin.Context, err error, data interface{}) {
	for _, m := range serviceErrors {
		if !errors.Is(err, m.target) {
			continue
		}
		message := m.message
		if m.code >= http.StatusInternalServerError {
			slog.ErrorContext(c.Request.Context(), "Service error",
				slog.String("trace_id", traceIDOf(c)), slog.Any("error", err))
		} else if m.target == ErrInvalidInput {
			message = err.Error()
		}
		RespondErrorWithData(c, m.code, message, data)
		return
	}

	if errors.Is(err, ErrDatabaseError) {
		slog.ErrorContext(c.Request.Context(), "Database error",
			slog.String("trace_id", traceIDOf(c)), slog.Any("error", err))
	} else {
		slog.ErrorContext(c.Request.Context(), "Unknown error",
			slog.String("trace_id", traceIDOf(c)), slog.Any("error", err))
	}
	RespondErrorWithData(c, http.StatusInternalServerError, "Internal server error", data)
}
