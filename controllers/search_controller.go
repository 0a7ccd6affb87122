package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"geovista-api/middleware"
	"geovista-api/models"
	"geovista-api/services"
	"geovista-api/utils"
)

type SearchController struct {
	search *services.SearchService
}

func NewSearchController(search *services.SearchService) *SearchController {
	return &SearchController{search: search}
}

func parseSearchQuery(c *gin.Context) services.SearchQuery {
	page := parsePagination(c)
	sortField, desc := parseSort(c)

	query := services.SearchQuery{
		Keyword:      c.Query("q"),
		Tag:          c.Query("tag"),
		Category:     models.PlaceCategory(c.Query("category")),
		RegionID:     c.Query("region_id"),
		ActingUserID: middleware.CurrentUserID(c),
		SortBy:       sortField,
		SortDesc:     desc,
		Page:         page.Page,
		Limit:        page.Limit,
	}

	latStr, lngStr, radiusStr := c.Query("lat"), c.Query("lng"), c.Query("radius_km")
	if latStr != "" && lngStr != "" && radiusStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		radius, radiusErr := strconv.ParseFloat(radiusStr, 64)
		if latErr == nil && lngErr == nil && radiusErr == nil {
			query.Location = &services.GeoFilter{Latitude: lat, Longitude: lng, RadiusKm: radius}
		}
	}
	return query
}

func (sc *SearchController) SearchRegions(c *gin.Context) {
	result, err := sc.search.SearchRegions(c.Request.Context(), parseSearchQuery(c))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, result.Items, result.Page, result.Limit, result.TotalCount)
}

func (sc *SearchController) AdvancedSearchRegions(c *gin.Context) {
	result, err := sc.search.AdvancedSearchRegions(c.Request.Context(), parseSearchQuery(c))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, result.Items, result.Page, result.Limit, result.TotalCount)
}

func (sc *SearchController) SearchPlaces(c *gin.Context) {
	result, err := sc.search.SearchPlaces(c.Request.Context(), parseSearchQuery(c))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, result.Items, result.Page, result.Limit, result.TotalCount)
}

func (sc *SearchController) AdvancedSearchPlaces(c *gin.Context) {
	result, err := sc.search.AdvancedSearchPlaces(c.Request.Context(), parseSearchQuery(c))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendPaginated(c, result.Items, result.Page, result.Limit, result.TotalCount)
}

func (sc *SearchController) SuggestRegionNames(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	names, err := sc.search.SuggestRegionNames(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Suggestions", names)
}

func (sc *SearchController) SuggestPlaceNames(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	names, err := sc.search.SuggestPlaceNames(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Suggestions", names)
}
