package controllers

import (
	"github.com/gin-gonic/gin"

	"geovista-api/middleware"
	"geovista-api/services"
	"geovista-api/utils"
)

type CheckinController struct {
	checkins *services.CheckinService
}

func NewCheckinController(checkins *services.CheckinService) *CheckinController {
	return &CheckinController{checkins: checkins}
}

func (cc *CheckinController) Create(c *gin.Context) {
	var input services.CreateCheckinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	input.PlaceID = c.Param("id")

	checkin, err := cc.checkins.CreateCheckin(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreated(c, "Checked in", checkin)
}

func (cc *CheckinController) Delete(c *gin.Context) {
	if err := cc.checkins.DeleteCheckin(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Checkin deleted", nil)
}

func (cc *CheckinController) Hide(c *gin.Context) {
	if err := cc.checkins.HideCheckin(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Checkin hidden", nil)
}

func (cc *CheckinController) ListForPlace(c *gin.Context) {
	page := parsePagination(c)
	checkins, total, err := cc.checkins.ListPlaceCheckins(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), page)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, checkins, page.Page, page.Limit, total)
}

func (cc *CheckinController) ListMine(c *gin.Context) {
	page := parsePagination(c)
	checkins, total, err := cc.checkins.ListUserCheckins(c.Request.Context(), middleware.CurrentUserID(c), page)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, checkins, page.Page, page.Limit, total)
}
