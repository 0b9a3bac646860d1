package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"travelmind/internal/models/request_models"
	"travelmind/internal/services"
	"travelmind/pkg/utils"
)

type ProfileController struct {
	profileService services.ProfileServiceInterface
}

func NewProfileController(profileService services.ProfileServiceInterface) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response_models.ProfileResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /profile [get]
func (p *ProfileController) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := p.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profile, "Profile fetched successfully")
}

// UpsertProfile godoc
// @Summary Create or replace the current user's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body request_models.UpsertProfileRequest true "Profile"
// @Success 200 {object} response_models.ProfileResponse
// @Security BearerAuth
// @Router /profile [put]
func (p *ProfileController) UpsertProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request_models.UpsertProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := p.profileService.Upsert(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profile, "Profile saved successfully")
}

// UpdatePreferences godoc
// @Summary Merge keys into the saved travel preferences
// @Description A null value removes the key.
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body request_models.UpdatePreferencesRequest true "Preference keys"
// @Success 200 {object} response_models.ProfileResponse
// @Security BearerAuth
// @Router /profile/preferences [patch]
func (p *ProfileController) UpdatePreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request_models.UpdatePreferencesRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := p.profileService.UpdatePreferences(c.Request.Context(), userID, req.Preferences)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profile, "Preferences updated successfully")
}

// UploadAvatar godoc
// @Summary Upload a profile picture
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PNG, JPEG or WebP image"
// @Success 200 {object} response_models.ProfileResponse
// @Failure 413 {object} utils.APIResponse
// @Failure 415 {object} utils.APIResponse
// @Security BearerAuth
// @Router /profile/avatar [post]
func (p *ProfileController) UploadAvatar(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Form field \"file\" is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	defer f.Close()

	profile, err := p.profileService.UploadAvatar(c.Request.Context(), userID, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, profile, "Avatar uploaded successfully")
}
