// Package server assembles the gin engine and its HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/internal/auth"
	adminctrl "github.com/lshigami/ieltsprep/internal/controller/admin"
	userctrl "github.com/lshigami/ieltsprep/internal/controller/user"
	"github.com/lshigami/ieltsprep/internal/middleware"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// Handlers groups the controllers mounted by RegisterRoutes.
type Handlers struct {
	fx.In

	AdminTests       *adminctrl.AdminTestController
	AdminSubmissions *adminctrl.AdminSubmissionController
	UserTests        *userctrl.UserTestController
}

func RegisterRoutes(router *gin.Engine, tokens *auth.TokenService, db *gorm.DB, h Handlers) {
	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			log.Warn().Err(err).Msg("Health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// User Routes (prefixed with /api/v1)
	userAPIGroup := router.Group("/api/v1", middleware.Authenticate(tokens))
	{
		userAPIGroup.GET("/tests", h.UserTests.GetAllTests)
		userAPIGroup.GET("/tests/:test_id", h.UserTests.GetTestDetails)
		userAPIGroup.POST("/tests/:test_id/submissions", h.UserTests.SubmitTest)
		userAPIGroup.GET("/submissions/:submission_id", h.UserTests.GetSubmission)
		userAPIGroup.GET("/users/:user_id/submissions", h.UserTests.GetUserSubmissions)
	}

	// Admin Routes (prefixed with /api/v1/admin)
	adminAPIGroup := router.Group("/api/v1/admin", middleware.Authenticate(tokens), middleware.RequireAdmin())
	{
		adminAPIGroup.POST("/tests", h.AdminTests.CreateTest)

		submissions := adminAPIGroup.Group("/submissions")
		submissions.GET("", h.AdminSubmissions.ListSubmissions)
		submissions.GET("/pending", h.AdminSubmissions.ReviewQueue)
		submissions.PUT("/:submission_id/grade", h.AdminSubmissions.GradeSubmission)
		submissions.POST("/:submission_id/parts/:part_number/suggestion", h.AdminSubmissions.SuggestPartScore)

		adminAPIGroup.GET("/analytics", h.AdminSubmissions.GetAnalytics)
	}
}

// StartServer ties the HTTP server to the fx lifecycle.
func StartServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Config) {
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("IELTS grading API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
