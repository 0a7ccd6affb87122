// Package controllers holds the gin HTTP handlers. Handlers bind and
// validate transport concerns only; all business rules live in services.
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"geovista-api/repositories"
)

func parsePagination(c *gin.Context) repositories.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return repositories.Pagination{Page: page, Limit: limit}.Normalize()
}

func parseSort(c *gin.Context) (field string, descending bool) {
	field = c.Query("sort_by")
	descending = c.DefaultQuery("sort_dir", "desc") != "asc"
	return field, descending
}
