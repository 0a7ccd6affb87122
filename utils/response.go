package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"geovista-api/errs"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

// StatusForError maps service error kinds to HTTP statuses.
func StatusForError(err error) int {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindPermissionRequired:
		return http.StatusForbidden
	case errs.KindCannotModifySelf:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// SendServiceError writes the HTTP response for a service error, exposing
// only the safe user message.
func SendServiceError(c *gin.Context, err error) {
	status := StatusForError(err)
	c.JSON(status, ErrorResponse{
		Error: errs.UserMessage(err),
		Code:  status,
	})
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

func SendValidationError(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Message: err,
		Code:    http.StatusBadRequest,
	})
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{Message: message}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

func SendPaginated(c *gin.Context, data interface{}, page, limit int, total int64) {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       data,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}
