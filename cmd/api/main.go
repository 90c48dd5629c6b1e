package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/viet-college/app-dept-pages/internal/config"
	"github.com/viet-college/app-dept-pages/internal/handlers"
	"github.com/viet-college/app-dept-pages/internal/logging"
	"github.com/viet-college/app-dept-pages/internal/middleware"
	"github.com/viet-college/app-dept-pages/internal/observability"
	"github.com/viet-college/app-dept-pages/internal/services"
	"github.com/viet-college/app-dept-pages/internal/utils"
	"go.uber.org/zap"

	_ "github.com/viet-college/app-dept-pages/docs"
)

// @title           Department Pages API
// @version         1.0
// @description     Content service for the college's department pages. Stores the page documents, migrates legacy shapes, accepts uploads from the admin editor and renders the public page with a three-tier fallback.

// @contact.name   Web Team
// @contact.email  webteam@viet.edu.in

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name pages
// @tag.description Department page documents and rendering

// @tag.name admin
// @tag.description Editor write operations

// @tag.name directory
// @tag.description Faculty directory and gallery

// @tag.name health
// @tag.description Health check operations

func main() {
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	observability.InitTracer()
	defer observability.ShutdownTracer()

	if err := config.InitMongoDB(); err != nil {
		logging.Logger.Fatal("failed to initialize MongoDB", zap.Error(err))
	}
	config.InitRedis()

	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	pages := services.NewDepartmentPageService(config.MongoDB, config.Redis, logging.Logger.Named("department_page_service"))
	directory := services.NewDirectoryService(config.MongoDB, config.Redis, logging.Logger.Named("directory_service"))
	gallery := services.NewGalleryService(config.MongoDB, config.Redis, logging.Logger.Named("gallery_service"))
	storage := services.NewAssetStorage(config.MongoDB, logging.Logger.Named("asset_storage"))
	renderer := services.NewRenderer(pages, directory, gallery, config.AppConfig.ReferenceDepartment, logging.Logger.Named("renderer"))

	handlerLogger := logging.Logger.Named("handlers")
	pageHandlers := handlers.NewPageHandlers(handlerLogger, pages, renderer)

	var audit *utils.AuditWorker
	if config.AppConfig.AuditLogsEnabled {
		sink := utils.NewMongoAuditSink(config.MongoDB.Collection(config.AppConfig.AuditLogsCollection))
		audit = utils.NewAuditWorker(sink, 2, 1000, logging.Logger)
	}
	adminHandlers := handlers.NewAdminHandlers(handlerLogger, pages, storage, config.AppConfig.UploadMaxBytes).WithAudit(audit)
	assetHandlers := handlers.NewAssetHandlers(handlerLogger, storage)
	directoryHandlers := handlers.NewDirectoryHandlers(handlerLogger, directory, gallery)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		middleware.RequestTiming(),
		cors.New(corsConfig()),
	)

	// multipart forms larger than this spill to temporary files
	router.MaxMultipartMemory = 8 << 20

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := []gin.HandlerFunc{middleware.AuthMiddleware(), middleware.RequireAdmin()}

	v1 := router.Group("/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		v1.GET("/departments", handlers.ListDepartments)
		v1.GET("/departments/:slug", handlers.GetDepartment)

		v1.GET("/pages/:slug", pageHandlers.GetPage)
		v1.GET("/pages/:slug/raw", append(admin, pageHandlers.GetRawPage)...)
		v1.GET("/pages/:slug/view", pageHandlers.GetPageView)
		v1.GET("/pages/:slug/html", pageHandlers.GetPageHTML)

		v1.GET("/faculty", directoryHandlers.ListFaculty)
		v1.GET("/hods", directoryHandlers.ListHODs)
		v1.GET("/gallery", directoryHandlers.ListGallery)

		v1.GET("/assets/:bucket/:id", assetHandlers.GetAsset)

		adminGroup := v1.Group("/admin", admin...)
		{
			adminGroup.PUT("/pages/:slug/sections", adminHandlers.UpdateSections)
			adminGroup.POST("/pages/:slug/curriculum", adminHandlers.UploadSyllabus)
			adminGroup.DELETE("/pages/:slug/curriculum", adminHandlers.DeleteRegulation)
			adminGroup.PUT("/pages/:slug/hero", adminHandlers.UpdateHero)
			adminGroup.POST("/uploads/:bucket", adminHandlers.UploadAsset)
			adminGroup.POST("/cache/invalidate", adminHandlers.InvalidateCache)
		}
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler: router,
		// uploads of large hero videos need headroom
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
			zap.String("storage_backend", config.AppConfig.StorageBackend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	audit.Stop()
	config.DisconnectMongoDB(ctx)

	logging.Logger.Info("server exited gracefully")
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	return cfg
}
