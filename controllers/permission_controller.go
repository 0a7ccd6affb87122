package controllers

import (
	"github.com/gin-gonic/gin"

	"geovista-api/middleware"
	"geovista-api/services"
	"geovista-api/utils"
)

type PermissionController struct {
	permissions *services.PermissionService
}

func NewPermissionController(permissions *services.PermissionService) *PermissionController {
	return &PermissionController{permissions: permissions}
}

type InviteRequest struct {
	Email     string `json:"email" binding:"required,email"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

func (pc *PermissionController) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	permission, err := pc.permissions.Invite(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Email, req.CanEdit, req.CanDelete)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreated(c, "Invitation sent", permission)
}

func (pc *PermissionController) Accept(c *gin.Context) {
	if err := pc.permissions.Accept(c.Request.Context(), middleware.CurrentUserID(c), c.Param("permissionId")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Invitation accepted", nil)
}

func (pc *PermissionController) Revoke(c *gin.Context) {
	if err := pc.permissions.Revoke(c.Request.Context(), middleware.CurrentUserID(c), c.Param("permissionId")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Permission revoked", nil)
}

func (pc *PermissionController) ListPlacePermissions(c *gin.Context) {
	permissions, err := pc.permissions.ListPlacePermissions(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Place permissions", permissions)
}

func (pc *PermissionController) GetSharedPlaces(c *gin.Context) {
	shared, err := pc.permissions.GetSharedPlaces(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Shared places", shared)
}
