package controllers

import (
	"github.com/gin-gonic/gin"

	"geovista-api/middleware"
	"geovista-api/models"
	"geovista-api/repositories"
	"geovista-api/services"
	"geovista-api/utils"
)

type PlaceController struct {
	places     *services.PlaceService
	moderation *services.ModerationService
}

func NewPlaceController(places *services.PlaceService, moderation *services.ModerationService) *PlaceController {
	return &PlaceController{places: places, moderation: moderation}
}

func (pc *PlaceController) Create(c *gin.Context) {
	var input services.CreatePlaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	place, err := pc.places.CreatePlace(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreated(c, "Place created", place)
}

func (pc *PlaceController) Get(c *gin.Context) {
	place, err := pc.places.GetPlace(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Place", place)
}

func (pc *PlaceController) List(c *gin.Context) {
	filter := repositories.PlaceFilter{
		Tag:       c.Query("tag"),
		Category:  models.PlaceCategory(c.Query("category")),
		RegionID:  c.Query("region_id"),
		CreatedBy: c.Query("created_by"),
	}
	page := parsePagination(c)
	sortField, desc := parseSort(c)

	places, total, err := pc.places.ListPlaces(c.Request.Context(), middleware.CurrentUserID(c), filter, sortField, desc, page)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, places, page.Page, page.Limit, total)
}

func (pc *PlaceController) Update(c *gin.Context) {
	var input services.UpdatePlaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	place, err := pc.places.UpdatePlace(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), input)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Place updated", place)
}

func (pc *PlaceController) Delete(c *gin.Context) {
	if err := pc.places.DeletePlace(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Place deleted", nil)
}

type MovePlaceRequest struct {
	RegionID string `json:"region_id" binding:"required"`
}

func (pc *PlaceController) Move(c *gin.Context) {
	var req MovePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := pc.places.MovePlace(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.RegionID); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Place moved", nil)
}

func (pc *PlaceController) Visit(c *gin.Context) {
	if err := pc.places.VisitPlace(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Visit recorded", nil)
}

func (pc *PlaceController) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := pc.moderation.UpdatePlaceStatus(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Status); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Status updated", nil)
}
