package services

import (
	"context"
	"strings"
	"time"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/repositories"
)

// wildcardToken is accepted by the advanced entry points as "no keyword".
const wildcardToken = "*"

const (
	suggestionMinPrefix   = 2
	suggestionDefaultMax  = 10
	suggestionCacheExpiry = 5 * time.Minute
)

// SuggestionCache is an optional read-through cache for name suggestions.
// A nil cache disables caching; cache failures are never surfaced.
type SuggestionCache interface {
	GetNames(ctx context.Context, key string) ([]string, bool)
	SetNames(ctx context.Context, key string, names []string, ttl time.Duration)
}

// GeoFilter restricts results to a radius around a coordinate.
type GeoFilter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius_km"`
}

// SearchQuery carries every supported filter. All supplied filters are
// ANDed; there are no OR semantics in this engine. Category and RegionID
// apply to place search only.
type SearchQuery struct {
	Keyword      string
	Tag          string
	Category     models.PlaceCategory
	RegionID     string
	Location     *GeoFilter
	ActingUserID string
	SortBy       string
	SortDesc     bool
	Page         int
	Limit        int
}

type RegionSearchResult struct {
	Items      []models.Region `json:"items"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}

type PlaceSearchResult struct {
	Items      []models.Place `json:"items"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

// SearchService is the geospatial and keyword search engine shared by
// regions and places.
type SearchService struct {
	regions repositories.RegionRepository
	places  repositories.PlaceRepository
	cache   SuggestionCache
}

func NewSearchService(regions repositories.RegionRepository, places repositories.PlaceRepository, cache SuggestionCache) *SearchService {
	return &SearchService{regions: regions, places: places, cache: cache}
}

// SearchRegions is the strict entry point: a real keyword is required.
func (s *SearchService) SearchRegions(ctx context.Context, query SearchQuery) (result *RegionSearchResult, err error) {
	defer recoverGuard(&err)

	keyword := strings.TrimSpace(query.Keyword)
	if keyword == "" || keyword == wildcardToken {
		return nil, errs.Validation("Search keyword is required")
	}
	query.Keyword = keyword
	return s.queryRegions(ctx, query)
}

// AdvancedSearchRegions treats an empty or wildcard keyword as "no keyword
// filter". The strict and advanced contracts are deliberately different.
func (s *SearchService) AdvancedSearchRegions(ctx context.Context, query SearchQuery) (result *RegionSearchResult, err error) {
	defer recoverGuard(&err)

	keyword := strings.TrimSpace(query.Keyword)
	if keyword == wildcardToken {
		keyword = ""
	}
	query.Keyword = keyword
	return s.queryRegions(ctx, query)
}

// SearchPlaces is the strict entry point for places.
func (s *SearchService) SearchPlaces(ctx context.Context, query SearchQuery) (result *PlaceSearchResult, err error) {
	defer recoverGuard(&err)

	keyword := strings.TrimSpace(query.Keyword)
	if keyword == "" || keyword == wildcardToken {
		return nil, errs.Validation("Search keyword is required")
	}
	query.Keyword = keyword
	return s.queryPlaces(ctx, query)
}

// AdvancedSearchPlaces is the wildcard-tolerant entry point for places.
func (s *SearchService) AdvancedSearchPlaces(ctx context.Context, query SearchQuery) (result *PlaceSearchResult, err error) {
	defer recoverGuard(&err)

	keyword := strings.TrimSpace(query.Keyword)
	if keyword == wildcardToken {
		keyword = ""
	}
	query.Keyword = keyword
	return s.queryPlaces(ctx, query)
}

func (s *SearchService) queryRegions(ctx context.Context, query SearchQuery) (*RegionSearchResult, error) {
	sortSpec, err := resolveSort(query.SortBy, query.SortDesc)
	if err != nil {
		return nil, err
	}
	if err := validateLocation(query.Location); err != nil {
		return nil, err
	}

	filter := repositories.RegionFilter{
		Keyword:    query.Keyword,
		Tag:        query.Tag,
		Visibility: &repositories.Visibility{ActingUserID: query.ActingUserID},
	}
	page := repositories.Pagination{Page: query.Page, Limit: query.Limit}.Normalize()

	if query.Location == nil {
		items, total, err := s.regions.List(ctx, filter, sortSpec, page)
		if err != nil {
			return nil, fetchErr("Failed to search regions", err)
		}
		return &RegionSearchResult{Items: items, TotalCount: total, Page: page.Page, Limit: page.Limit}, nil
	}

	// With a distance filter the radius check has to run before pagination,
	// so fetch the full filtered set and page here.
	candidates, err := s.regions.Search(ctx, filter, sortSpec)
	if err != nil {
		return nil, fetchErr("Failed to search regions", err)
	}

	matched := make([]models.Region, 0, len(candidates))
	for _, region := range candidates {
		d := Distance(query.Location.Latitude, query.Location.Longitude, region.Latitude, region.Longitude)
		if d <= query.Location.RadiusKm {
			matched = append(matched, region)
		}
	}

	total := int64(len(matched))
	start, end := pageBounds(len(matched), page)
	return &RegionSearchResult{Items: matched[start:end], TotalCount: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *SearchService) queryPlaces(ctx context.Context, query SearchQuery) (*PlaceSearchResult, error) {
	sortSpec, err := resolveSort(query.SortBy, query.SortDesc)
	if err != nil {
		return nil, err
	}
	if err := validateLocation(query.Location); err != nil {
		return nil, err
	}
	if query.Category != "" && !query.Category.Valid() {
		return nil, errs.Validation("Unknown place category")
	}

	filter := repositories.PlaceFilter{
		Keyword:    query.Keyword,
		Tag:        query.Tag,
		Category:   query.Category,
		RegionID:   query.RegionID,
		Visibility: &repositories.Visibility{ActingUserID: query.ActingUserID},
	}
	page := repositories.Pagination{Page: query.Page, Limit: query.Limit}.Normalize()

	if query.Location == nil {
		items, total, err := s.places.List(ctx, filter, sortSpec, page)
		if err != nil {
			return nil, fetchErr("Failed to search places", err)
		}
		return &PlaceSearchResult{Items: items, TotalCount: total, Page: page.Page, Limit: page.Limit}, nil
	}

	candidates, err := s.places.Search(ctx, filter, sortSpec)
	if err != nil {
		return nil, fetchErr("Failed to search places", err)
	}

	matched := make([]models.Place, 0, len(candidates))
	for _, place := range candidates {
		d := Distance(query.Location.Latitude, query.Location.Longitude, place.Latitude, place.Longitude)
		if d <= query.Location.RadiusKm {
			matched = append(matched, place)
		}
	}

	total := int64(len(matched))
	start, end := pageBounds(len(matched), page)
	return &PlaceSearchResult{Items: matched[start:end], TotalCount: total, Page: page.Page, Limit: page.Limit}, nil
}

// SuggestRegionNames returns up to limit deduplicated region names matching
// prefix. A prefix below two characters yields an empty list, not an error.
func (s *SearchService) SuggestRegionNames(ctx context.Context, prefix string, limit int) (names []string, err error) {
	defer recoverGuard(&err)
	return s.suggest(ctx, "region", prefix, limit, s.regions.SuggestNames)
}

// SuggestPlaceNames is the place variant of SuggestRegionNames.
func (s *SearchService) SuggestPlaceNames(ctx context.Context, prefix string, limit int) (names []string, err error) {
	defer recoverGuard(&err)
	return s.suggest(ctx, "place", prefix, limit, s.places.SuggestNames)
}

func (s *SearchService) suggest(ctx context.Context, kind, prefix string, limit int, fetch func(context.Context, string, int) ([]string, error)) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len([]rune(prefix)) < suggestionMinPrefix {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = suggestionDefaultMax
	}

	cacheKey := "suggest:" + kind + ":" + strings.ToLower(prefix)
	if s.cache != nil {
		if cached, ok := s.cache.GetNames(ctx, cacheKey); ok {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}
	}

	names, err := fetch(ctx, prefix, limit)
	if err != nil {
		return nil, fetchErr("Failed to fetch suggestions", err)
	}
	if s.cache != nil {
		s.cache.SetNames(ctx, cacheKey, names, suggestionCacheExpiry)
	}
	return names, nil
}

func validateLocation(location *GeoFilter) error {
	if location == nil {
		return nil
	}
	if !IsValidLatitude(location.Latitude) || !IsValidLongitude(location.Longitude) {
		return errs.Validation("Invalid coordinates")
	}
	if location.RadiusKm <= 0 {
		return errs.Validation("Radius must be positive")
	}
	return nil
}

// pageBounds slices an in-memory result set; out-of-range pages are empty,
// not errors.
func pageBounds(total int, page repositories.Pagination) (int, int) {
	start := page.Offset()
	if start >= total {
		return 0, 0
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return start, end
}
