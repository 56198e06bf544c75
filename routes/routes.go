package routes

import (
	"github.com/tiansito98/calorie-vision-tracker/controllers"
	"github.com/tiansito98/calorie-vision-tracker/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Entry    *controllers.EntryController
	Summary  *controllers.SummaryController
	Digest   *controllers.DigestController
	Realtime *controllers.RealtimeController
}

func SetupRouter(c Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", c.User.GetProfile)
		user.PUT("/profile", c.User.UpdateProfile)
		user.GET("/calorie-targets", c.User.GetCalorieTargets)
	}

	// Food entries
	entries := r.Group("/entries")
	entries.Use(middlewares.AuthMiddleware())
	{
		entries.POST("/analyze", c.Entry.AnalyzeImage)
		entries.POST("", c.Entry.CreateEntry)
		entries.PUT("/:id", c.Entry.UpdateEntry)
		entries.DELETE("/:id", c.Entry.DeleteEntry)
		entries.GET("", c.Entry.ListByDate)
		entries.GET("/recent", c.Entry.ListRecent)
	}

	// Derived aggregates
	summaries := r.Group("/summaries")
	summaries.Use(middlewares.AuthMiddleware())
	{
		summaries.GET("/daily", c.Summary.GetDailySummary)
		summaries.GET("/rolling-average", c.Summary.GetRollingAverage)
		summaries.GET("/trend", c.Summary.GetCalorieTrend)
		summaries.GET("/streak", c.Summary.GetStreak)
	}

	// Weekly digests
	digests := r.Group("/digests")
	digests.Use(middlewares.AuthMiddleware())
	{
		digests.GET("/latest", c.Digest.GetLatestDigest)
		digests.POST("/send", c.Digest.SendDigest)
	}

	// Realtime summary stream
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("/summaries", c.Realtime.SummariesWS)
	}

	return r
}
