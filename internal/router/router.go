package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/handler"
	"github.com/coursedeck/coursedeck-api/internal/middleware"
	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/service"
	"github.com/coursedeck/coursedeck-api/pkg/config"
	"github.com/coursedeck/coursedeck-api/pkg/logger"
	corsmiddleware "github.com/coursedeck/coursedeck-api/pkg/middleware/cors"
	reqidmiddleware "github.com/coursedeck/coursedeck-api/pkg/middleware/requestid"
)

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	Auth        *service.AuthService
	Metrics     *service.MetricsService
	AuthHandler *handler.AuthHandler
	Courses     *handler.CourseHandler
	Enrollment  *handler.EnrollmentHandler
}

// New builds the gin engine with the full route table.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/signup", deps.AuthHandler.Signup)
		auth.POST("/login", deps.AuthHandler.Login)
		auth.GET("/google", deps.AuthHandler.GoogleLogin)
		auth.GET("/google/callback", deps.AuthHandler.GoogleCallback)

		session := auth.Group("", middleware.JWT(deps.Auth))
		{
			session.GET("/dark-mode", deps.AuthHandler.GetDarkMode)
			session.PUT("/dark-mode", deps.AuthHandler.SetDarkMode)
			session.GET("/profile", deps.AuthHandler.Profile)
		}
	}

	api := r.Group("/api")
	{
		api.GET("/public/items", deps.Courses.PublicList)

		authed := api.Group("", middleware.JWT(deps.Auth))
		{
			authed.GET("/items", deps.Courses.List)

			users := authed.Group("", middleware.RequireRoles(models.RoleUser))
			{
				users.GET("/cart", deps.Enrollment.Cart)
				users.POST("/cart/:courseId", deps.Enrollment.AddToCart)
				users.DELETE("/cart/:courseId", deps.Enrollment.RemoveFromCart)
				users.POST("/enroll/:courseId", deps.Enrollment.Enroll)
				users.DELETE("/enroll/:courseId", deps.Enrollment.Unenroll)
				users.GET("/enrolled", deps.Enrollment.Enrolled)
			}

			admins := authed.Group("", middleware.RequireRoles(models.RoleAdmin))
			{
				admins.GET("/admin", deps.Courses.AdminWelcome)
				admins.POST("/item", deps.Courses.Create)
				admins.PUT("/item/:id", deps.Courses.Update)
				admins.DELETE("/item/:id", deps.Courses.Delete)
				admins.GET("/stats", deps.Courses.Stats)
				admins.GET("/stats/export", deps.Courses.ExportStats)
				admins.GET("/enrollments/:courseId", deps.Enrollment.Roster)
			}
		}
	}

	return r
}
