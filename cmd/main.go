package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"tracker-service/internal/api"
	"tracker-service/internal/config"
	"tracker-service/internal/consumer"
	"tracker-service/internal/permission"
	"tracker-service/internal/repository"
	"tracker-service/internal/service"
	"tracker-service/migrations"
)

func connectDBEnv(host, port, user, pass, dbname string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", dbname)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s (%s:%s): %v", i+1, dbname, host, port, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s at %s:%s after retries: %v", dbname, host, port, err)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	db, err := connectDBEnv(
		envOr("DB_HOST", "127.0.0.1"),
		envOr("DB_PORT", "3306"),
		envOr("DB_USER", "root"),
		os.Getenv("DB_PASS"),
		envOr("DB_NAME", "tracker-db"),
	)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrate(3, db); err != nil {
		log.Fatalf("Failed to migrate tracker tables: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_ADDR", "localhost:6379"),
	})

	kafkaWriter := config.NewKafkaWriter("tracker-topic")

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	contributorRepo := repository.NewContributorRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userRepo, rdb)
	projectService := service.NewProjectService(projectRepo, kafkaWriter)
	contributorService := service.NewContributorService(contributorRepo, userRepo)
	issueService := service.NewIssueService(issueRepo, kafkaWriter)
	commentService := service.NewCommentService(commentRepo)
	statsService := service.NewStatsService(rdb)

	userPolicy := permission.NewUserPolicy()
	projectPolicy := permission.NewProjectPolicy(projectRepo, contributorRepo)
	contributorPolicy := permission.NewContributorPolicy(projectRepo, contributorRepo)
	issuePolicy := permission.NewIssuePolicy(projectRepo, contributorRepo, issueRepo)
	commentPolicy := permission.NewCommentPolicy(projectRepo, contributorRepo, issueRepo, commentRepo)

	authHandler := api.NewAuthHandler(authService)
	userHandler := api.NewUserHandler(userService, userPolicy)
	projectHandler := api.NewProjectHandler(projectService, statsService, projectPolicy)
	contributorHandler := api.NewContributorHandler(contributorService, contributorPolicy)
	issueHandler := api.NewIssueHandler(issueService, issuePolicy)
	commentHandler := api.NewCommentHandler(commentService, commentPolicy)

	statsConsumer := consumer.NewConsumer(rdb)
	go statsConsumer.StartKafkaConsumer()

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(1),
				Burst:     3,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// Public routes
	e.POST("/signup", userHandler.Signup)
	e.POST("/token", authHandler.Token)
	e.POST("/token/refresh", authHandler.TokenRefresh)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "tracker-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Everything below carries a bearer access token.
	protected := e.Group("")
	protected.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: service.Secret(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.JwtCustomClaims)
		},
	}))

	protected.GET("/users", userHandler.ListUsers)
	protected.GET("/users/:id", userHandler.GetUser)
	protected.PUT("/users/:id", userHandler.UpdateUser)
	protected.PATCH("/users/:id", userHandler.UpdateUser)
	protected.DELETE("/users/:id", userHandler.DeleteUser)

	protected.GET("/projects", projectHandler.ListProjects)
	protected.POST("/projects", projectHandler.CreateProject)
	protected.GET("/projects/:project_id", projectHandler.GetProject)
	protected.PUT("/projects/:project_id", projectHandler.UpdateProject)
	protected.PATCH("/projects/:project_id", projectHandler.UpdateProject)
	protected.DELETE("/projects/:project_id", projectHandler.DeleteProject)
	protected.GET("/projects/:project_id/stats", projectHandler.ProjectStats)

	protected.GET("/projects/:project_id/contributors", contributorHandler.ListContributors)
	protected.POST("/projects/:project_id/contributors", contributorHandler.AddContributor)
	protected.GET("/projects/:project_id/contributors/:user_id", contributorHandler.GetContributor)
	protected.DELETE("/projects/:project_id/contributors/:user_id", contributorHandler.RemoveContributor)

	protected.GET("/projects/:project_id/issues", issueHandler.ListIssues)
	protected.POST("/projects/:project_id/issues", issueHandler.CreateIssue)
	protected.GET("/projects/:project_id/issues/:issue_id", issueHandler.GetIssue)
	protected.PUT("/projects/:project_id/issues/:issue_id", issueHandler.UpdateIssue)
	protected.PATCH("/projects/:project_id/issues/:issue_id", issueHandler.UpdateIssue)
	protected.DELETE("/projects/:project_id/issues/:issue_id", issueHandler.DeleteIssue)

	protected.GET("/projects/:project_id/issues/:issue_id/comments", commentHandler.ListComments)
	protected.POST("/projects/:project_id/issues/:issue_id/comments", commentHandler.CreateComment)
	protected.GET("/projects/:project_id/issues/:issue_id/comments/:uuid", commentHandler.GetComment)
	protected.PUT("/projects/:project_id/issues/:issue_id/comments/:uuid", commentHandler.UpdateComment)
	protected.PATCH("/projects/:project_id/issues/:issue_id/comments/:uuid", commentHandler.UpdateComment)
	protected.DELETE("/projects/:project_id/issues/:issue_id/comments/:uuid", commentHandler.DeleteComment)

	e.Logger.Fatal(e.Start(":" + envOr("PORT", "8080")))
}
