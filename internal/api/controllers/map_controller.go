package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"travelmind/internal/services"
	"travelmind/pkg/utils"
)

type MapController struct {
	mapService services.MapServiceInterface
}

func NewMapController(mapService services.MapServiceInterface) *MapController {
	return &MapController{mapService: mapService}
}

// Geocode godoc
// @Summary Resolve an address to coordinates
// @Tags Maps
// @Produce json
// @Param address query string true "Address or place name"
// @Param city query string false "City to search in"
// @Success 200 {array} response_models.GeoResult
// @Security BearerAuth
// @Router /maps/geocode [get]
func (m *MapController) Geocode(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		utils.RespondError(c, http.StatusBadRequest, "address is required")
		return
	}

	results, err := m.mapService.Geocode(c.Request.Context(), address, c.Query("city"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, results, "Geocode fetched successfully")
}

// SearchPOI godoc
// @Summary Search points of interest by keyword
// @Tags Maps
// @Produce json
// @Param keywords query string true "Keywords"
// @Param city query string false "City"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20) maximum(25)
// @Success 200 {object} response_models.POIPage
// @Security BearerAuth
// @Router /maps/pois [get]
func (m *MapController) SearchPOI(c *gin.Context) {
	keywords := strings.TrimSpace(c.Query("keywords"))
	if keywords == "" {
		utils.RespondError(c, http.StatusBadRequest, "keywords is required")
		return
	}
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := intQuery(c, "page_size", 20)
	if !ok {
		return
	}

	result, err := m.mapService.SearchPOI(c.Request.Context(), keywords, c.Query("city"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "POIs fetched successfully")
}

// SearchAround godoc
// @Summary Search points of interest near a coordinate
// @Tags Maps
// @Produce json
// @Param location query string true "lng,lat"
// @Param keywords query string false "Keywords"
// @Param radius query int false "Radius in meters" default(1000)
// @Success 200 {object} response_models.POIPage
// @Security BearerAuth
// @Router /maps/pois/around [get]
func (m *MapController) SearchAround(c *gin.Context) {
	radius, ok := intQuery(c, "radius", 1000)
	if !ok {
		return
	}

	result, err := m.mapService.SearchAround(c.Request.Context(), c.Query("location"), c.Query("keywords"), radius)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "POIs fetched successfully")
}

// Route godoc
// @Summary Plan a route between two coordinates
// @Tags Maps
// @Produce json
// @Param origin query string true "lng,lat"
// @Param destination query string true "lng,lat"
// @Param mode query string false "driving, walking or transit" default(driving)
// @Param city query string false "City, required for transit"
// @Success 200 {object} response_models.RouteResult
// @Security BearerAuth
// @Router /maps/route [get]
func (m *MapController) Route(c *gin.Context) {
	mode := c.DefaultQuery("mode", services.RouteDriving)

	route, err := m.mapService.Route(c.Request.Context(), c.Query("origin"), c.Query("destination"), mode, c.Query("city"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, route, "Route fetched successfully")
}
