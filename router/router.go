package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/facilities-app/controllers"
	"github.com/yeremiapane/facilities-app/middlewares"
	"github.com/yeremiapane/facilities-app/models"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	venueCtrl := controllers.NewVenueController(db)
	queryCtrl := controllers.NewQueryController(db)
	adminCtrl := controllers.NewAdminController(db)

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	api.GET("/health", controllers.HealthCheck)

	// Login/register behind the strict limiter
	public := api.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
		public.POST("/auth/google", userCtrl.GoogleLogin)
	}

	// Anonymous query submission (multipart, optional image)
	api.POST("/queries/anonymous", queryCtrl.CreateAnonymousQuery)

	// Venue browsing and stored images stay public
	api.GET("/venues", venueCtrl.GetAllVenues)
	api.GET("/venues/:venue_id", venueCtrl.GetVenueByID)
	api.GET("/files/:filename", controllers.GetFile)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)

	// QUERIES (any authenticated role)
	auth.GET("/queries", queryCtrl.GetAllQueries)
	auth.GET("/queries/search", queryCtrl.SearchQueries)
	auth.GET("/queries/stats", queryCtrl.GetQueryStats)
	auth.GET("/queries/user/:user_id", queryCtrl.GetQueriesByUser)
	auth.GET("/queries/worker/:worker_id", queryCtrl.GetQueriesByWorker)
	auth.GET("/queries/status/:status", queryCtrl.GetQueriesByStatus)
	auth.GET("/queries/venue/:venue_id", queryCtrl.GetQueriesByVenue)
	auth.GET("/queries/:query_id", queryCtrl.GetQueryByID)
	auth.GET("/queries/:query_id/history", queryCtrl.GetQueryHistory)
	auth.POST("/queries", queryCtrl.CreateQuery)
	auth.POST("/queries/with-image", queryCtrl.CreateQueryWithImage)

	// FILES
	auth.POST("/files/upload", controllers.UploadFile)

	// Status transitions and completion: worker or admin
	workerOrAdmin := auth.Group("/")
	workerOrAdmin.Use(middlewares.RequireRoles(models.RoleWorker, models.RoleAdmin))
	{
		workerOrAdmin.PUT("/queries/:query_id/status", queryCtrl.UpdateQueryStatus)
		workerOrAdmin.PUT("/queries/:query_id/complete", queryCtrl.CompleteQuery)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := auth.Group("/")
	admin.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		// USERS
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.GET("/users/search", userCtrl.SearchUsers)
		admin.GET("/users/stats", userCtrl.GetUserStats)
		admin.GET("/users/workers", userCtrl.GetWorkers)
		admin.GET("/users/by-role/:role", userCtrl.GetUsersByRole)
		admin.GET("/users/by-worker-type/:worker_type", userCtrl.GetUsersByWorkerType)
		admin.GET("/users/:user_id", userCtrl.GetUserByID)
		admin.POST("/users", userCtrl.Register)
		admin.POST("/users/sample-data", userCtrl.AddSampleData)
		admin.PUT("/users/:user_id", userCtrl.UpdateUser)
		admin.DELETE("/users/:user_id", userCtrl.DeleteUser)

		// VENUES
		admin.POST("/venues", venueCtrl.CreateVenue)
		admin.PUT("/venues/:venue_id", venueCtrl.UpdateVenue)
		admin.DELETE("/venues/:venue_id", venueCtrl.DeleteVenue)
		admin.GET("/venues/type/:type", venueCtrl.GetVenuesByType)
		admin.GET("/venues/search", venueCtrl.SearchVenues)
		admin.GET("/venues/building/:building", venueCtrl.GetVenuesByBuilding)

		// QUERY assignment and removal
		admin.GET("/queries/:query_id/eligible-workers", queryCtrl.GetEligibleWorkers)
		admin.PUT("/queries/:query_id/assign", queryCtrl.AssignWorker)
		admin.PUT("/queries/:query_id/assign/:worker_id", queryCtrl.AssignWorker)
		admin.DELETE("/queries/:query_id", queryCtrl.DeleteQuery)

		// DASHBOARD + REPORTS
		admin.GET("/admin/dashboard/stats", adminCtrl.GetDashboardStats)
		admin.GET("/admin/reports/export", adminCtrl.ExportQueries)
	}

	return r
}
