package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/controller"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/session"
	"coursehub_backend/pkg/database"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"coursehub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Engine   *gin.Engine
	Sessions session.Store

	tracerProvider *sdktrace.TracerProvider
	sweeperDone    chan struct{}

	authController       *controller.AuthController
	courseController     *controller.CourseController
	enrollmentController *controller.EnrollmentController
	healthController     *controller.HealthController
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	// Redis is optional; without it the catalog cache is simply skipped.
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("redis unavailable, catalog caching disabled", zap.Error(err))
		rdb = nil
	}

	monitoring.Init()

	a := &App{
		Cfg:         cfg,
		DB:          db,
		Redis:       rdb,
		Sessions:    session.NewMemoryStore(cfg.Session.TTL),
		sweeperDone: make(chan struct{}),
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("coursehub", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("tracing init failed", zap.Error(err))
		} else {
			a.tracerProvider = tp
		}
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	storageService := service.NewStorageService(cfg)
	youtubeService := service.NewYouTubeService(&cfg.YouTube)

	authService := service.NewAuthService(userRepo, a.Sessions, cfg)
	userService := service.NewUserService(userRepo, storageService)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo, userRepo, youtubeService, rdb)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo)

	a.authController = controller.NewAuthController(authService, userService, cfg)
	a.courseController = controller.NewCourseController(courseService)
	a.enrollmentController = controller.NewEnrollmentController(enrollmentService)
	a.healthController = controller.NewHealthController(a.Sessions)

	gin.SetMode(ginMode(cfg.Server.Mode))
	a.Engine = a.setupRouter()

	return a, nil
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// Run starts the HTTP server and the session sweeper, then blocks until
// SIGINT or SIGTERM and drains in-flight requests before returning.
func (a *App) Run() error {
	go a.runSessionSweeper()

	srv := &http.Server{
		Addr:    ":" + a.Cfg.Server.Port,
		Handler: a.Engine,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("port", a.Cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	close(a.sweeperDone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}

	logger.Log.Info("server stopped")
	return nil
}

// runSessionSweeper evicts expired sessions on a fixed interval and keeps
// the active-sessions gauge current.
func (a *App) runSessionSweeper() {
	ticker := time.NewTicker(a.Cfg.Session.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			evicted := a.Sessions.Sweep()
			monitoring.ActiveSessions.Set(float64(a.Sessions.Len()))
			if evicted > 0 {
				logger.Log.Info("session sweep", zap.Int("evicted", evicted))
			}
		case <-a.sweeperDone:
			return
		}
	}
}
