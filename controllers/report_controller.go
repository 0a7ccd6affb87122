package controllers

import (
	"github.com/gin-gonic/gin"

	"geovista-api/middleware"
	"geovista-api/models"
	"geovista-api/repositories"
	"geovista-api/services"
	"geovista-api/utils"
)

type ReportController struct {
	moderation *services.ModerationService
}

func NewReportController(moderation *services.ModerationService) *ReportController {
	return &ReportController{moderation: moderation}
}

func (rc *ReportController) Create(c *gin.Context) {
	var input services.CreateReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	report, err := rc.moderation.CreateReport(c.Request.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreated(c, "Report filed", report)
}

type UpdateReportStatusRequest struct {
	Status models.ReportStatus `json:"status" binding:"required"`
	Notes  string              `json:"notes"`
}

func (rc *ReportController) UpdateStatus(c *gin.Context) {
	var req UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	report, err := rc.moderation.UpdateReportStatus(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Report updated", report)
}

func (rc *ReportController) List(c *gin.Context) {
	filter := repositories.ReportFilter{
		Status:     models.ReportStatus(c.Query("status")),
		EntityType: models.ReportEntityType(c.Query("entity_type")),
		EntityID:   c.Query("entity_id"),
		ReporterID: c.Query("reporter_id"),
	}
	page := parsePagination(c)

	reports, total, err := rc.moderation.ListReports(c.Request.Context(), middleware.CurrentUserID(c), filter, page)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, reports, page.Page, page.Limit, total)
}
