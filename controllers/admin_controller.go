package controllers

import (
	"github.com/gin-gonic/gin"

	"geovista-api/middleware"
	"geovista-api/models"
	"geovista-api/repositories"
	"geovista-api/services"
	"geovista-api/utils"
)

type AdminController struct {
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

func (ac *AdminController) ListUsers(c *gin.Context) {
	filter := repositories.UserFilter{
		Role:    models.UserRole(c.Query("role")),
		Status:  models.UserStatus(c.Query("status")),
		Keyword: c.Query("q"),
	}
	page := parsePagination(c)

	users, total, err := ac.admin.ListUsers(c.Request.Context(), middleware.CurrentUserID(c), filter, page)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, users, page.Page, page.Limit, total)
}

type UpdateUserRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

func (ac *AdminController) UpdateUserRole(c *gin.Context) {
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := ac.admin.UpdateUserRole(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Role); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Role updated", nil)
}

type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required"`
}

func (ac *AdminController) UpdateUserStatus(c *gin.Context) {
	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := ac.admin.UpdateUserStatus(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Status); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Status updated", nil)
}

func (ac *AdminController) DeleteUser(c *gin.Context) {
	if err := ac.admin.DeleteUser(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "User deleted", nil)
}
