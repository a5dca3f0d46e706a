package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/postloop/postloop-api/configs"
	"github.com/postloop/postloop-api/internal/api/handlers"
	"github.com/postloop/postloop-api/internal/api/middleware"
	job "github.com/postloop/postloop-api/internal/jobs"
	"github.com/postloop/postloop-api/internal/publisher"
	"github.com/postloop/postloop-api/internal/queue"
	"github.com/postloop/postloop-api/internal/repository"
	"github.com/postloop/postloop-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	if err := runMigrations(cfg.MigrationsPath, cfg.PostgresURI); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	slotRepo := repository.NewWeeklySlotRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	postMediaRepo := repository.NewPostMediaRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo, activityRepo)
	r2Service := service.NewR2Service(*cfg)
	postService := service.NewPostService(db, postRepo, libraryRepo, mediaAssetRepo, postMediaRepo, *r2Service)
	libraryService := service.NewLibraryService(libraryRepo)
	slotService := service.NewSlotService(slotRepo, libraryRepo)
	platformService := service.NewPlatformService(*cfg, socialAccountRepo)
	xService := service.NewXService(*cfg, socialAccountRepo)
	pinterestService := service.NewPinterestService(*cfg, socialAccountRepo)
	tiktokService := service.NewTiktokService(*cfg, socialAccountRepo)
	aiService := service.NewAIService(cfg.OpenAIAPIKey, libraryRepo, postRepo, brandRepo, activityRepo)
	brandService := service.NewBrandService(brandRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)

	slotPublisher := publisher.New(slotRepo, postRepo, activityRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Get("/logout", auth.Logout)

	platform := handlers.NewPlatformHandler(platformService, xService, pinterestService, tiktokService, *cfg)
	app.Get("/auth/:platform", platform.AddSocialAccount)
	app.Get("/auth/:platform/callback", platform.CallbackHandler)

	cronHandler := handlers.NewCronHandler(*cfg, slotPublisher)
	app.Get("/cron/publish", cronHandler.PublishHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Get("/user/activities", user.ListActivities)
	api.Post("/user/remove", user.DeleteAccount)

	brand := handlers.NewBrandHandler(brandService)
	api.Get("/brand", brand.GetBrandProfile)
	api.Post("/brand", brand.SaveBrandProfile)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	library := handlers.NewLibraryHandler(libraryService)
	api.Post("/libraries/create", library.CreateLibrary)
	api.Get("/libraries", library.ListLibraries)
	api.Post("/libraries/update", library.UpdateLibrary)
	api.Post("/libraries/pause", library.PauseLibrary)
	api.Post("/libraries/remove", library.RemoveLibrary)

	slot := handlers.NewSlotHandler(slotService)
	api.Post("/slots/create", slot.CreateSlot)
	api.Get("/slots", slot.ListSlots)
	api.Post("/slots/remove", slot.RemoveSlot)

	post := handlers.NewPostHandler(postService, client)
	api.Post("/posts/create", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/update", post.UpdatePost)
	api.Post("/posts/remove", post.RemovePost)

	ai := handlers.NewAIHandler(aiService)
	api.Post("/libraries/generate", ai.GeneratePosts)

	// social accounts api routes
	api.Get("/accounts", platform.ListSocialAccounts)
	api.Get("/accounts/pinterest/boards", platform.ListPinterestBoards)
	api.Post("/accounts/remove", platform.DeleteSocialAccount)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(socialAccountRepo, xService, pinterestService, tiktokService)
	publishJob := job.NewPublishJob(slotPublisher)

	//queue
	queueW := queue.NewQueue(postRepo, socialAccountRepo, mediaAssetRepo, postMediaRepo, activityRepo, xService, pinterestService, tiktokService)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.AddFunc("0 0 * * * *", publishJob.Publish)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeSchedulePost, queueW.HandleSchedulePostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func runMigrations(sourceURL, databaseURL string) error {
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
