package controllers

import (
	"github.com/gin-gonic/gin"
	"travelmind/internal/models/request_models"
	"travelmind/internal/services"
	"travelmind/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
}

func NewItineraryController(itineraryService services.ItineraryServiceInterface) *ItineraryController {
	return &ItineraryController{itineraryService: itineraryService}
}

// GenerateTrip godoc
// @Summary Create a trip and generate its itinerary
// @Description When the AI answer cannot be used the trip stays a draft; the
// @Description 502 response carries trip_id and raw_text.
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.TripRequest true "Trip preferences"
// @Success 201 {object} response_models.ItineraryResult
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/generate [post]
func (i *ItineraryController) GenerateTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request_models.TripRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := i.itineraryService.CreateAndGenerate(c.Request.Context(), userID, req)
	if err != nil {
		if result != nil {
			utils.HandleServiceErrorWithData(c, err, result)
			return
		}
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, result, "Trip planned successfully")
}

// GenerateForTrip godoc
// @Summary (Re)generate the itinerary of an existing trip
// @Tags Itinerary
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} response_models.ItineraryResult
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{id}/itinerary/generate [post]
func (i *ItineraryController) GenerateForTrip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}

	result, err := i.itineraryService.GenerateForTrip(c.Request.Context(), userID, tripID)
	if err != nil {
		if result != nil {
			utils.HandleServiceErrorWithData(c, err, result)
			return
		}
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Itinerary generated successfully")
}

// ReplaceItinerary godoc
// @Summary Replace the whole itinerary
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.ReplaceItineraryRequest true "Edited itinerary"
// @Success 200 {object} response_models.Itinerary
// @Security BearerAuth
// @Router /trips/{id}/itinerary [put]
func (i *ItineraryController) ReplaceItinerary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}
	var req request_models.ReplaceItineraryRequest
	if !bindJSON(c, &req) {
		return
	}

	it, err := i.itineraryService.ReplaceItinerary(c.Request.Context(), userID, tripID, req.Itinerary)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, it, "Itinerary saved successfully")
}

// AddActivity godoc
// @Summary Add an activity to a day
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Day number, starting at 1"
// @Param request body request_models.AddActivityRequest true "Activity"
// @Success 200 {object} response_models.Itinerary
// @Security BearerAuth
// @Router /trips/{id}/itinerary/days/{day}/activities [post]
func (i *ItineraryController) AddActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}
	day, ok := intParam(c, "day")
	if !ok {
		return
	}
	var req request_models.AddActivityRequest
	if !bindJSON(c, &req) {
		return
	}

	it, err := i.itineraryService.AddActivity(c.Request.Context(), userID, tripID, day, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, it, "Activity added successfully")
}

// UpdateActivity godoc
// @Summary Edit one activity
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Day number, starting at 1"
// @Param index path int true "Activity index within the day"
// @Param request body request_models.ActivityPatch true "Fields to change"
// @Success 200 {object} response_models.Itinerary
// @Security BearerAuth
// @Router /trips/{id}/itinerary/days/{day}/activities/{index} [patch]
func (i *ItineraryController) UpdateActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}
	day, ok := intParam(c, "day")
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var patch request_models.ActivityPatch
	if !bindJSON(c, &patch) {
		return
	}

	it, err := i.itineraryService.UpdateActivity(c.Request.Context(), userID, tripID, day, index, patch)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, it, "Activity updated successfully")
}

// RemoveActivity godoc
// @Summary Remove one activity
// @Tags Itinerary
// @Produce json
// @Param id path string true "Trip ID"
// @Param day path int true "Day number, starting at 1"
// @Param index path int true "Activity index within the day"
// @Success 200 {object} response_models.Itinerary
// @Security BearerAuth
// @Router /trips/{id}/itinerary/days/{day}/activities/{index} [delete]
func (i *ItineraryController) RemoveActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}
	day, ok := intParam(c, "day")
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}

	it, err := i.itineraryService.RemoveActivity(c.Request.Context(), userID, tripID, day, index)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, it, "Activity removed successfully")
}

// MoveActivity godoc
// @Summary Move an activity to another day or position
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param request body request_models.MoveActivityRequest true "Source and target"
// @Success 200 {object} response_models.Itinerary
// @Security BearerAuth
// @Router /trips/{id}/itinerary/move [post]
func (i *ItineraryController) MoveActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "id", "trip")
	if !ok {
		return
	}
	var req request_models.MoveActivityRequest
	if !bindJSON(c, &req) {
		return
	}

	it, err := i.itineraryService.MoveActivity(c.Request.Context(), userID, tripID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, it, "Activity moved successfully")
}
