package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geovista-api/middleware"
	"geovista-api/models"
	"geovista-api/services"
	"geovista-api/utils"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	user, err := ac.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreated(c, "Registration successful", user)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	token, user, err := ac.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Credential failures read as unauthorized at the HTTP layer.
		utils.SendError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: *user})
}

func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextTokenKey)
	if err := ac.auth.Logout(c.Request.Context(), token); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Successfully logged out", nil)
}

func (ac *AuthController) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.SendError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	c.JSON(http.StatusOK, user)
}
