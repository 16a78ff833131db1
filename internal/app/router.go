package app

import (
	"time"

	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/session"
	"coursehub_backend/pkg/monitoring"
	"coursehub_backend/pkg/security"
	"coursehub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
)

func (a *App) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(security.CORS(a.Cfg.CORS.AllowedOrigins))
	r.Use(security.Secure())
	r.Use(monitoring.MetricsMiddleware())

	if a.Cfg.RateLimit.MaxRequests > 0 {
		window := time.Duration(a.Cfg.RateLimit.WindowMinutes) * time.Minute
		r.Use(security.RateLimiter(a.Cfg.RateLimit.MaxRequests, window))
	}

	if a.tracerProvider != nil {
		r.Use(tracing.GinMiddleware())
	}

	r.GET("/health", a.healthController.Health)
	r.GET("/metrics", monitoring.PrometheusHandler())

	if a.Cfg.Storage.Type == "local" {
		r.Static("/uploads", a.Cfg.Storage.LocalPath)
	}

	resolver := session.NewResolver(
		// Token first: a caller presenting both carriers authenticates by
		// the token.
		&session.TokenStrategy{
			Secret:     a.Cfg.JWT.Secret,
			CookieName: "token",
		},
		&session.SessionStrategy{
			Store:      a.Sessions,
			CookieName: a.Cfg.Session.CookieName,
			HeaderName: a.Cfg.Session.HeaderName,
		},
	)

	api := r.Group(a.Cfg.Server.APIPrefix)
	api.Use(middleware.Identify(resolver))

	auth := api.Group("/auth")
	{
		auth.POST("/register", a.authController.Register)
		auth.POST("/login", a.authController.Login)
		auth.POST("/logout", a.authController.Logout)
		auth.GET("/check", a.authController.Check)

		auth.GET("/profile", middleware.RequireAuth(), a.authController.GetProfile)
		auth.PUT("/profile", middleware.RequireAuth(), a.authController.UpdateProfile)
		auth.POST("/avatar", middleware.RequireAuth(), a.authController.UploadAvatar)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", a.courseController.List)
		// Any signed-in caller may list what they own; students just get
		// an empty list.
		courses.GET("/my", middleware.RequireAuth(), a.courseController.MyCourses)
		courses.GET("/:id", a.courseController.Get)

		courses.POST("", middleware.RequireRoles(model.Instructor), a.courseController.Create)
		courses.DELETE("/:id", middleware.RequireRoles(model.Instructor), a.courseController.Delete)
		courses.POST("/:id/lessons", middleware.RequireRoles(model.Instructor), a.courseController.AddLesson)
		courses.GET("/:id/suggest-videos", middleware.RequireRoles(model.Instructor), a.courseController.SuggestVideos)
	}

	// One param name throughout the group; gin rejects mixed names at the
	// same position. POST treats it as a course id, the rest as an
	// enrollment id.
	enroll := api.Group("/enroll", middleware.RequireAuth())
	{
		enroll.POST("/:id", a.enrollmentController.Enroll)
		enroll.GET("/my-courses", a.enrollmentController.MyCourses)
		enroll.GET("/:id", a.enrollmentController.Get)
		enroll.PUT("/:id/progress", a.enrollmentController.UpdateProgress)
		enroll.DELETE("/:id", a.enrollmentController.Unenroll)
	}

	return r
}
