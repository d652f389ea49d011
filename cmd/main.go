package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/database"
	_ "github.com/lshigami/ieltsprep/docs" // Swagger docs - auto-generated
	"github.com/lshigami/ieltsprep/internal/auth"
	adminctrl "github.com/lshigami/ieltsprep/internal/controller/admin"
	userctrl "github.com/lshigami/ieltsprep/internal/controller/user"
	"github.com/lshigami/ieltsprep/internal/grading"
	"github.com/lshigami/ieltsprep/internal/logger"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/server"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title IELTS Practice Grading API
// @version 1.0
// @description Grades IELTS practice test submissions, queues Writing and Speaking parts for manual review and reports analytics to administrators.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	// Structured logging before the config is read; re-initialised from config later.
	logger.Init("info", false)

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ieltsprep",
		Short:        "IELTS practice grading API",
		SilenceUsage: true,
	}

	serve := serveCmd()
	root.AddCommand(serve, migrateCmd(), tokenCmd())
	// "serve" is the default when no subcommand is given.
	root.RunE = serve.RunE
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				// Core Application Components
				fx.Provide(
					config.NewConfig,
					database.NewDatabase, // Provides *gorm.DB
					server.NewGinEngine,  // Provides *gin.Engine
					auth.NewTokenService,
					func(cfg *config.Config) *grading.Engine {
						return grading.NewEngine(grading.Options{SubjectivePartMarks: cfg.Grading.SubjectivePartMarks})
					},
				),

				// Repositories Layer
				fx.Provide(
					repository.NewTestRepository,
					repository.NewSubmissionRepository,
					repository.NewUserRepository,
				),

				// Services Layer
				fx.Provide(
					service.NewScoreConverterService,
					service.NewUserTestService,
					service.NewAdminTestService,
					service.NewGeminiLLMService,
					service.NewReviewAssistantService,
					service.NewSubmissionService,
					func(users repository.UserRepository, submissions repository.SubmissionRepository, tests repository.TestRepository, cfg *config.Config) service.AnalyticsService {
						return service.NewAnalyticsService(users, submissions, tests, cfg.Analytics.TopTests)
					},
				),

				// API Controllers Layer
				fx.Provide(
					adminctrl.NewAdminTestController,
					adminctrl.NewAdminSubmissionController,
					userctrl.NewUserTestController,
				),

				// Invokers - Functions that are executed by Fx
				fx.Invoke(
					func(cfg *config.Config) { logger.Init(cfg.Log.Level, cfg.Log.Pretty) },
					database.AutoMigrate,
					server.RegisterRoutes,
					server.StartServer,
				),
			)

			// Blocks until SIGINT/SIGTERM, then runs the OnStop hooks.
			app.Run()
			return app.Err()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			logger.Init(cfg.Log.Level, cfg.Log.Pretty)
			db, err := database.NewDatabase(cfg)
			if err != nil {
				return err
			}
			return migrate(cmd.Context(), db)
		},
	}
}

func migrate(ctx context.Context, db *gorm.DB) error {
	if err := database.AutoMigrate(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed development token",
		Long:  "Signs a JWT with JWT_SECRET for local testing. Production tokens come from the identity service.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			userID, _ := f.GetUint("user-id")
			role, _ := f.GetString("role")
			ttl, _ := f.GetDuration("ttl")
			if role != model.RoleStudent && role != model.RoleAdmin {
				return fmt.Errorf("role must be %q or %q", model.RoleStudent, model.RoleAdmin)
			}

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			tok, err := auth.NewTokenService(cfg).Issue(auth.Principal{UserID: userID, Role: role}, ttl)
			if err != nil {
				return err
			}
			log.Debug().Uint("userID", userID).Str("role", role).Dur("ttl", ttl).Msg("Issued development token")
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	f := cmd.Flags()
	f.Uint("user-id", 0, "Subject user ID (required)")
	f.String("role", model.RoleStudent, "Role claim (student or admin)")
	f.Duration("ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
