package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geovista-api/errs"
	"geovista-api/models"
	"geovista-api/services"
)

// fakeSuggestionCache is an in-process stand-in for the Redis cache.
type fakeSuggestionCache struct {
	entries map[string][]string
	hits    int
	sets    int
}

func newFakeSuggestionCache() *fakeSuggestionCache {
	return &fakeSuggestionCache{entries: map[string][]string{}}
}

func (c *fakeSuggestionCache) GetNames(ctx context.Context, key string) ([]string, bool) {
	names, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return names, ok
}

func (c *fakeSuggestionCache) SetNames(ctx context.Context, key string, names []string, ttl time.Duration) {
	c.sets++
	c.entries[key] = names
}

func searchEnv(t *testing.T) (*env, *services.SearchService, *fakeSuggestionCache) {
	t.Helper()
	e := newEnv(t)
	e.seedUser(t, "owner", models.RoleVisitor, models.UserStatusActive)
	cache := newFakeSuggestionCache()
	return e, services.NewSearchService(e.repos.Regions, e.repos.Places, cache), cache
}

func seedNamedRegion(t *testing.T, e *env, id, name string, lat, lng float64, status models.ContentStatus, tags ...string) {
	t.Helper()
	region := &models.Region{
		ID:        id,
		Name:      name,
		Latitude:  lat,
		Longitude: lng,
		Status:    status,
		CreatedBy: "owner",
		Tags:      models.StringSlice(tags),
	}
	require.NoError(t, e.repos.Regions.Create(context.Background(), region))
}

func TestSearchRegionsRequiresKeyword(t *testing.T) {
	_, svc, _ := searchEnv(t)

	for _, keyword := range []string{"", "   ", "*"} {
		_, err := svc.SearchRegions(context.Background(), services.SearchQuery{Keyword: keyword})
		assert.True(t, errs.IsKind(err, errs.KindValidation), "keyword %q", keyword)
	}
}

func TestAdvancedSearchAcceptsWildcard(t *testing.T) {
	e, svc, _ := searchEnv(t)
	seedNamedRegion(t, e, "r1", "Old Town", 47.5, 19.0, models.ContentStatusPublished)
	seedNamedRegion(t, e, "r2", "Riverside", 47.6, 19.1, models.ContentStatusPublished)

	result, err := svc.AdvancedSearchRegions(context.Background(), services.SearchQuery{Keyword: "*"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.TotalCount)

	// The strict entry point rejects the very same query.
	_, err = svc.SearchRegions(context.Background(), services.SearchQuery{Keyword: "*"})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestSearchRegionsKeywordAndVisibility(t *testing.T) {
	e, svc, _ := searchEnv(t)
	seedNamedRegion(t, e, "r1", "Old Town", 47.5, 19.0, models.ContentStatusPublished)
	seedNamedRegion(t, e, "r2", "Old Harbor", 47.6, 19.1, models.ContentStatusDraft)

	// Keyword matching is case-insensitive; the foreign draft stays hidden.
	result, err := svc.SearchRegions(context.Background(), services.SearchQuery{Keyword: "old"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "r1", result.Items[0].ID)

	// The owner finds their own draft too.
	result, err = svc.SearchRegions(context.Background(), services.SearchQuery{Keyword: "old", ActingUserID: "owner"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.TotalCount)
}

func TestSearchFindsRegionAfterPublish(t *testing.T) {
	e, svc, _ := searchEnv(t)
	moderation := services.NewModerationService(e.repos, e.tx)
	seedNamedRegion(t, e, "r1", "Hidden Gem", 47.5, 19.0, models.ContentStatusDraft)

	result, err := svc.SearchRegions(context.Background(), services.SearchQuery{Keyword: "hidden gem"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, result.TotalCount)

	require.NoError(t, moderation.UpdateRegionStatus(context.Background(), "owner", "r1", models.ContentStatusPublished))

	result, err = svc.SearchRegions(context.Background(), services.SearchQuery{Keyword: "hidden gem"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalCount)
}

func TestSearchRegionsRadiusFilter(t *testing.T) {
	e, svc, _ := searchEnv(t)
	// Two regions ~11 km apart; the search origin is on the first one.
	seedNamedRegion(t, e, "near", "Near Park", 47.50, 19.04, models.ContentStatusPublished, "park")
	seedNamedRegion(t, e, "far", "Far Park", 47.60, 19.04, models.ContentStatusPublished, "park")

	query := services.SearchQuery{
		Keyword:  "park",
		Location: &services.GeoFilter{Latitude: 47.50, Longitude: 19.04, RadiusKm: 20},
	}
	result, err := svc.SearchRegions(context.Background(), query)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.TotalCount)

	// Shrinking the radius can only shrink the result set.
	query.Location.RadiusKm = 5
	result, err = svc.SearchRegions(context.Background(), query)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "near", result.Items[0].ID)
}

func TestSearchLocationValidation(t *testing.T) {
	_, svc, _ := searchEnv(t)

	_, err := svc.SearchRegions(context.Background(), services.SearchQuery{
		Keyword:  "x",
		Location: &services.GeoFilter{Latitude: 95, Longitude: 0, RadiusKm: 1},
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = svc.SearchRegions(context.Background(), services.SearchQuery{
		Keyword:  "x",
		Location: &services.GeoFilter{Latitude: 0, Longitude: 0, RadiusKm: 0},
	})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestSearchPlacesByCategoryAndRegion(t *testing.T) {
	e, svc, _ := searchEnv(t)
	e.seedRegion(t, "r1", "owner", models.ContentStatusPublished)
	e.seedPlace(t, "cafe-1", "r1", "owner", models.ContentStatusPublished)

	bar := &models.Place{
		ID: "bar-1", Name: "Corner Bar", Category: models.CategoryBar,
		RegionID: "r1", Latitude: 47.5, Longitude: 19.0,
		Status: models.ContentStatusPublished, CreatedBy: "owner",
	}
	require.NoError(t, e.repos.Places.Create(context.Background(), bar))

	result, err := svc.AdvancedSearchPlaces(context.Background(), services.SearchQuery{RegionID: "r1", Category: models.CategoryBar})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "bar-1", result.Items[0].ID)

	_, err = svc.AdvancedSearchPlaces(context.Background(), services.SearchQuery{Category: "disco"})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestSearchRejectsUnknownSortField(t *testing.T) {
	_, svc, _ := searchEnv(t)

	_, err := svc.AdvancedSearchRegions(context.Background(), services.SearchQuery{SortBy: "secret"})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestSuggestRegionNames(t *testing.T) {
	e, svc, cache := searchEnv(t)
	seedNamedRegion(t, e, "r1", "Budapest Center", 47.5, 19.0, models.ContentStatusPublished)
	seedNamedRegion(t, e, "r2", "Buda Hills", 47.52, 18.96, models.ContentStatusPublished)
	seedNamedRegion(t, e, "r3", "Buried Valley", 47.6, 19.2, models.ContentStatusDraft)

	// Below the minimum prefix length: empty result, no error, no fetch.
	names, err := svc.SuggestRegionNames(context.Background(), "b", 10)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Zero(t, cache.sets)

	// Drafts never show up in suggestions.
	names, err = svc.SuggestRegionNames(context.Background(), "bu", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Buda Hills", "Budapest Center"}, names)
	assert.Equal(t, 1, cache.sets)

	// Second call with the same prefix is served from the cache.
	_, err = svc.SuggestRegionNames(context.Background(), "BU", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets)
}

func TestSuggestWorksWithoutCache(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "owner", models.RoleVisitor, models.UserStatusActive)
	seedNamedRegion(t, e, "r1", "Old Town", 47.5, 19.0, models.ContentStatusPublished)
	svc := services.NewSearchService(e.repos.Regions, e.repos.Places, nil)

	names, err := svc.SuggestRegionNames(context.Background(), "old", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Old Town"}, names)
}
