package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"travelmind/internal/models/request_models"
	"travelmind/internal/services"
	"travelmind/pkg/utils"
)

type TripController struct {
	tripService services.TripServiceInterface
}

func NewTripController(tripService services.TripServiceInterface) *TripController {
	return &TripController{tripService: tripService}
}

// CreateTrip godoc
// @Summary Create a draft trip
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.TripRequest true "Trip preferences"
// @Success 201 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips [post]
func (t *TripController) CreateTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request_models.TripRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := t.tripService.Create(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, trip, "Trip created successfully")
}

// ListTrips godoc
// @Summary List the user's trips
// @Description Newest first. Itineraries are omitted from list items.
// @Tags Trip
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10) minimum(1) maximum(100)
// @Param status query string false "draft, planned, ongoing, completed or cancelled"
// @Success 200 {object} response_models.TripPage
// @Security BearerAuth
// @Router /trips [get]
func (t *TripController) ListTrips(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request_models.ListTripsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page or page size")
		return
	}

	page, err := t.tripService.List(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "Trips fetched successfully")
}

// GetTrip godoc
// @Summary Get a trip with its itinerary
// @Tags Trip
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response_models.TripResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{id} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}

	trip, err := t.tripService.Get(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Trip fetched successfully")
}

// UpdateTrip godoc
// @Summary Update trip fields
// @Tags Trip
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.UpdateTripRequest true "Fields to change"
// @Success 200 {object} response_models.TripResponse
// @Security BearerAuth
// @Router /trips/{id} [put]
func (t *TripController) UpdateTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}
	var req request_models.UpdateTripRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := t.tripService.Update(c.Request.Context(), userID, tripID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Trip updated successfully")
}

// DeleteTrip godoc
// @Summary Delete a trip and its expenses
// @Tags Trip
// @Param id path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{id} [delete]
func (t *TripController) DeleteTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}

	if err := t.tripService.Delete(c.Request.Context(), userID, tripID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Trip deleted successfully")
}

// ChangeTripStatus godoc
// @Summary Move a trip through its lifecycle
// @Tags Trip
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.ChangeTripStatusRequest true "New status"
// @Success 200 {object} response_models.TripResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{id}/status [patch]
func (t *TripController) ChangeTripStatus(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}
	var req request_models.ChangeTripStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	trip, err := t.tripService.ChangeStatus(c.Request.Context(), userID, tripID, req.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trip, "Trip status updated successfully")
}

// SimilarTrips godoc
// @Summary Find the user's trips closest to this one
// @Tags Trip
// @Produce json
// @Param id path string true "Trip ID"
// @Param limit query int false "Maximum results" default(5) maximum(20)
// @Success 200 {array} response_models.TripResponse
// @Security BearerAuth
// @Router /trips/{id}/similar [get]
func (t *TripController) SimilarTrips(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 5)
	if !ok {
		return
	}

	trips, err := t.tripService.FindSimilar(c.Request.Context(), userID, tripID, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, trips, "Similar trips fetched successfully")
}
