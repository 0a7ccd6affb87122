package controllers

import (
	"github.com/gin-gonic/gin"

	"geovista-api/middleware"
	"geovista-api/models"
	"geovista-api/repositories"
	"geovista-api/services"
	"geovista-api/utils"
)

type RegionController struct {
	regions    *services.RegionService
	moderation *services.ModerationService
}

func NewRegionController(regions *services.RegionService, moderation *services.ModerationService) *RegionController {
	return &RegionController{regions: regions, moderation: moderation}
}

func (rc *RegionController) Create(c *gin.Context) {
	var input services.CreateRegionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	region, err := rc.regions.CreateRegion(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreated(c, "Region created", region)
}

func (rc *RegionController) Get(c *gin.Context) {
	region, err := rc.regions.GetRegion(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Region", region)
}

func (rc *RegionController) List(c *gin.Context) {
	filter := repositories.RegionFilter{
		Tag:       c.Query("tag"),
		CreatedBy: c.Query("created_by"),
	}
	page := parsePagination(c)
	sortField, desc := parseSort(c)

	regions, total, err := rc.regions.ListRegions(c.Request.Context(), middleware.CurrentUserID(c), filter, sortField, desc, page)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, regions, page.Page, page.Limit, total)
}

func (rc *RegionController) ListMine(c *gin.Context) {
	page := parsePagination(c)
	regions, total, err := rc.regions.ListMyRegions(c.Request.Context(), middleware.CurrentUserID(c), page)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, regions, page.Page, page.Limit, total)
}

func (rc *RegionController) Update(c *gin.Context) {
	var input services.UpdateRegionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	region, err := rc.regions.UpdateRegion(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), input)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Region updated", region)
}

func (rc *RegionController) Delete(c *gin.Context) {
	if err := rc.regions.DeleteRegion(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Region deleted", nil)
}

func (rc *RegionController) Visit(c *gin.Context) {
	if err := rc.regions.VisitRegion(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Visit recorded", nil)
}

type UpdateStatusRequest struct {
	Status models.ContentStatus `json:"status" binding:"required"`
}

func (rc *RegionController) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := rc.moderation.UpdateRegionStatus(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Status); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Status updated", nil)
}
