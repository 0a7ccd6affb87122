package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"geovista-api/middleware"
	"geovista-api/services"
	"geovista-api/utils"
)

// FavoriteController serves both favorites and the pinned-region list.
type FavoriteController struct {
	favorites *services.FavoriteService
	pins      *services.PinService
}

func NewFavoriteController(favorites *services.FavoriteService, pins *services.PinService) *FavoriteController {
	return &FavoriteController{favorites: favorites, pins: pins}
}

func parseLimit(c *gin.Context) *int {
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			return &limit
		}
	}
	return nil
}

func (fc *FavoriteController) AddRegionFavorite(c *gin.Context) {
	if err := fc.favorites.AddRegionFavorite(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreated(c, "Region favorited", nil)
}

func (fc *FavoriteController) RemoveRegionFavorite(c *gin.Context) {
	if err := fc.favorites.RemoveRegionFavorite(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Region unfavorited", nil)
}

func (fc *FavoriteController) ListFavoriteRegions(c *gin.Context) {
	regions, err := fc.favorites.ListFavoriteRegions(c.Request.Context(), middleware.CurrentUserID(c), parseLimit(c))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Favorite regions", regions)
}

func (fc *FavoriteController) AddPlaceFavorite(c *gin.Context) {
	if err := fc.favorites.AddPlaceFavorite(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreated(c, "Place favorited", nil)
}

func (fc *FavoriteController) RemovePlaceFavorite(c *gin.Context) {
	if err := fc.favorites.RemovePlaceFavorite(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Place unfavorited", nil)
}

func (fc *FavoriteController) ListFavoritePlaces(c *gin.Context) {
	places, err := fc.favorites.ListFavoritePlaces(c.Request.Context(), middleware.CurrentUserID(c), parseLimit(c))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Favorite places", places)
}

func (fc *FavoriteController) PinRegion(c *gin.Context) {
	pin, err := fc.pins.PinRegion(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreated(c, "Region pinned", pin)
}

func (fc *FavoriteController) UnpinRegion(c *gin.Context) {
	if err := fc.pins.UnpinRegion(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Region unpinned", nil)
}

func (fc *FavoriteController) ListPinnedRegions(c *gin.Context) {
	pinned, err := fc.pins.ListPinnedRegions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Pinned regions", pinned)
}

type ReorderPinsRequest struct {
	RegionIDs []string `json:"region_ids" binding:"required"`
}

func (fc *FavoriteController) ReorderPins(c *gin.Context) {
	var req ReorderPinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := fc.pins.Reorder(c.Request.Context(), middleware.CurrentUserID(c), req.RegionIDs); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, "Pins reordered", nil)
}
