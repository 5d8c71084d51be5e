package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HapaxPablo/online-cinema-server/internal/config"
	"github.com/HapaxPablo/online-cinema-server/internal/handler"
	"github.com/HapaxPablo/online-cinema-server/internal/middleware"
	"github.com/HapaxPablo/online-cinema-server/internal/repo"
	"github.com/HapaxPablo/online-cinema-server/internal/scheduler"
	"github.com/HapaxPablo/online-cinema-server/internal/service"
	"github.com/HapaxPablo/online-cinema-server/internal/storage"
	"github.com/HapaxPablo/online-cinema-server/internal/telegram"
	"github.com/HapaxPablo/online-cinema-server/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.IsDev())
	log := logger.Log

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURL))
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.MongoDB)

	// Telegram gateway is mandatory: publish notifications go through it
	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN is required")
	}
	tg, err := telegram.New(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Telegram")
	}

	// Repos
	movieRepo := repo.NewMovieRepo(db)
	genreRepo := repo.NewGenreRepo(db)
	actorRepo := repo.NewActorRepo(db)
	userRepo := repo.NewUserRepo(db)
	ratingRepo := repo.NewRatingRepo(db)
	refreshTokenRepo := repo.NewRefreshTokenRepo(db)

	// Seed admin user if configured
	if cfg.AdminPassword != "" {
		if err := userRepo.SeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Error().Err(err).Msg("failed to seed admin user")
		} else {
			log.Info().Str("email", cfg.AdminEmail).Msg("admin user ready")
		}
	}

	// Services
	movieSvc := service.NewMovieService(movieRepo, tg, cfg.AppURL)
	ratingSvc := service.NewRatingService(ratingRepo, movieSvc)
	fileSvc := storage.NewFileService(cfg.UploadDir, cfg.BaseURL)

	// Handlers
	movieHandler := handler.NewMovieHandler(movieSvc)
	genreHandler := handler.NewGenreHandler(genreRepo, movieRepo)
	actorHandler := handler.NewActorHandler(actorRepo)
	userHandler := handler.NewUserHandler(userRepo, movieRepo)
	authHandler := handler.NewAuthHandler(userRepo, refreshTokenRepo, cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	ratingHandler := handler.NewRatingHandler(ratingSvc)
	fileHandler := handler.NewFileHandler(fileSvc)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Error().Err(err).Str("path", c.Path()).Msg("request error")
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(cors.New())
	app.Use(func(c *fiber.Ctx) error {
		if c.Path() == "/favicon.ico" {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})

	api := app.Group("/api")

	// Public auth routes
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.Refresh)

	// Protected auth routes
	authGroup := api.Group("/auth", middleware.AuthMiddleware(cfg.JWTSecret))
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authHandler.Me)

	// Public catalog routes
	api.Get("/movies", movieHandler.List)
	api.Get("/movies/most-popular", movieHandler.MostPopular)
	api.Get("/movies/by-slug/:slug", movieHandler.BySlug)
	api.Get("/movies/by-actor/:actorId", movieHandler.ByActor)
	api.Post("/movies/by-genres", movieHandler.ByGenres)
	api.Put("/movies/update-count-opened", movieHandler.View)

	api.Get("/genres", genreHandler.List)
	api.Get("/genres/collections", genreHandler.Collections)
	api.Get("/genres/by-slug/:slug", genreHandler.BySlug)

	api.Get("/actors", actorHandler.List)
	api.Get("/actors/by-slug/:slug", actorHandler.BySlug)

	// Profile routes (require authentication)
	profile := api.Group("/users/profile", middleware.AuthMiddleware(cfg.JWTSecret))
	profile.Get("/", userHandler.Profile)
	profile.Put("/", userHandler.UpdateProfile)
	profile.Get("/favorites", userHandler.Favorites)
	profile.Put("/favorites", userHandler.ToggleFavorite)

	// Rating routes (require authentication)
	ratings := api.Group("/ratings", middleware.AuthMiddleware(cfg.JWTSecret))
	ratings.Get("/:movieId", ratingHandler.Get)
	ratings.Post("/", ratingHandler.Set)

	// Admin-only routes
	admin := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret), middleware.AdminOnly())
	admin.Get("/movies/:id", movieHandler.Get)
	admin.Post("/movies", movieHandler.Create)
	admin.Put("/movies/:id", movieHandler.Update)
	admin.Delete("/movies/:id", movieHandler.Delete)

	admin.Get("/genres/:id", genreHandler.Get)
	admin.Post("/genres", genreHandler.Create)
	admin.Put("/genres/:id", genreHandler.Update)
	admin.Delete("/genres/:id", genreHandler.Delete)

	admin.Get("/actors/:id", actorHandler.Get)
	admin.Post("/actors", actorHandler.Create)
	admin.Put("/actors/:id", actorHandler.Update)
	admin.Delete("/actors/:id", actorHandler.Delete)

	admin.Get("/users", userHandler.List)
	admin.Get("/users/count", userHandler.Count)
	admin.Get("/users/:id", userHandler.Get)
	admin.Put("/users/:id", userHandler.Update)
	admin.Delete("/users/:id", userHandler.Delete)

	admin.Post("/files", fileHandler.Upload)

	app.Static("/uploads", cfg.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched, err := scheduler.New(refreshTokenRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutting down")
		cancel()
		app.Shutdown()
	}()

	log.Info().Str("port", cfg.Port).Str("db", cfg.MongoDB).Msg("cinema server started")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
