package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"geovista-api/cache"
	"geovista-api/config"
	"geovista-api/controllers"
	"geovista-api/middleware"
	"geovista-api/repositories"
	"geovista-api/services"
)

// SetupCORS returns the CORS middleware used in front of every route.
func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// SetupRoutes wires repositories, services, and controllers onto the router.
// It returns the auth service so main can hand it to the cleanup job.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, storage services.StorageService, log *logrus.Logger) *services.AuthService {
	repos := repositories.NewGormRepos(db)
	tx := repositories.NewGormTransactor(db)

	var suggestionCache services.SuggestionCache
	if cfg.RedisAddr != "" {
		suggestionCache = cache.NewRedisSuggestionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	}

	emailService := services.NewEmailService(cfg, log)
	hasher := services.NewBcryptHasher()
	locationService := services.NewLocationService()

	authService := services.NewAuthService(repos, hasher, emailService, cfg.JWTSecret, log)
	regionService := services.NewRegionService(repos, tx)
	permissionService := services.NewPermissionService(repos, emailService, log)
	placeService := services.NewPlaceService(repos, tx, permissionService)
	checkinService := services.NewCheckinService(repos, tx, locationService)
	searchService := services.NewSearchService(repos.Regions, repos.Places, suggestionCache)
	favoriteService := services.NewFavoriteService(repos, tx)
	pinService := services.NewPinService(repos, tx)
	moderationService := services.NewModerationService(repos, tx)
	adminService := services.NewAdminService(repos)

	authController := controllers.NewAuthController(authService)
	regionController := controllers.NewRegionController(regionService, moderationService)
	placeController := controllers.NewPlaceController(placeService, moderationService)
	searchController := controllers.NewSearchController(searchService)
	favoriteController := controllers.NewFavoriteController(favoriteService, pinService)
	permissionController := controllers.NewPermissionController(permissionService)
	checkinController := controllers.NewCheckinController(checkinService)
	reportController := controllers.NewReportController(moderationService)
	adminController := controllers.NewAdminController(adminService)
	uploadController := controllers.NewUploadController(storage)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong", "status": "healthy"})
	})

	v1 := r.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Public reads; an optional token lets owners see their drafts.
	public := v1.Group("/")
	public.Use(middleware.OptionalAuthMiddleware(authService))
	{
		regions := public.Group("/regions")
		{
			regions.GET("/", regionController.List)
			regions.GET("/:id", regionController.Get)
			regions.GET("/search", searchController.SearchRegions)
			regions.GET("/search/advanced", searchController.AdvancedSearchRegions)
			regions.GET("/suggest", searchController.SuggestRegionNames)
		}

		places := public.Group("/places")
		{
			places.GET("/", placeController.List)
			places.GET("/:id", placeController.Get)
			places.GET("/search", searchController.SearchPlaces)
			places.GET("/search/advanced", searchController.AdvancedSearchPlaces)
			places.GET("/suggest", searchController.SuggestPlaceNames)
			places.GET("/:id/checkins", checkinController.ListForPlace)
		}
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.POST("/auth/logout", authController.Logout)
		protected.GET("/users/profile", authController.Profile)
		protected.POST("/uploads", uploadController.Upload)

		regions := protected.Group("/regions")
		{
			regions.POST("/", regionController.Create)
			regions.GET("/mine", regionController.ListMine)
			regions.PUT("/:id", regionController.Update)
			regions.DELETE("/:id", regionController.Delete)
			regions.POST("/:id/visit", regionController.Visit)
			regions.PUT("/:id/status", regionController.UpdateStatus)
			regions.POST("/:id/favorite", favoriteController.AddRegionFavorite)
			regions.DELETE("/:id/favorite", favoriteController.RemoveRegionFavorite)
			regions.POST("/:id/pin", favoriteController.PinRegion)
			regions.DELETE("/:id/pin", favoriteController.UnpinRegion)
		}

		places := protected.Group("/places")
		{
			places.POST("/", placeController.Create)
			places.PUT("/:id", placeController.Update)
			places.DELETE("/:id", placeController.Delete)
			places.POST("/:id/move", placeController.Move)
			places.POST("/:id/visit", placeController.Visit)
			places.PUT("/:id/status", placeController.UpdateStatus)
			places.POST("/:id/favorite", favoriteController.AddPlaceFavorite)
			places.DELETE("/:id/favorite", favoriteController.RemovePlaceFavorite)
			places.POST("/:id/checkins", checkinController.Create)
			places.POST("/:id/permissions", permissionController.Invite)
			places.GET("/:id/permissions", permissionController.ListPlacePermissions)
		}

		favorites := protected.Group("/favorites")
		{
			favorites.GET("/regions", favoriteController.ListFavoriteRegions)
			favorites.GET("/places", favoriteController.ListFavoritePlaces)
		}

		pins := protected.Group("/pins")
		{
			pins.GET("/", favoriteController.ListPinnedRegions)
			pins.PUT("/order", favoriteController.ReorderPins)
		}

		permissions := protected.Group("/permissions")
		{
			permissions.POST("/:permissionId/accept", permissionController.Accept)
			permissions.DELETE("/:permissionId", permissionController.Revoke)
			permissions.GET("/shared-places", permissionController.GetSharedPlaces)
		}

		checkins := protected.Group("/checkins")
		{
			checkins.GET("/mine", checkinController.ListMine)
			checkins.DELETE("/:id", checkinController.Delete)
			checkins.POST("/:id/hide", checkinController.Hide)
		}

		reports := protected.Group("/reports")
		{
			reports.POST("/", reportController.Create)
			reports.GET("/", reportController.List)
			reports.PUT("/:id/status", reportController.UpdateStatus)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", adminController.ListUsers)
			admin.PUT("/users/:id/role", adminController.UpdateUserRole)
			admin.PUT("/users/:id/status", adminController.UpdateUserStatus)
			admin.DELETE("/users/:id", adminController.DeleteUser)
			admin.DELETE("/uploads/:filename", uploadController.Delete)
		}
	}

	return authService
}
