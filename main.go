package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/robfig/cron/v3"

	"github.com/mohamedamineameur/comptia/config"
	"github.com/mohamedamineameur/comptia/database"
	"github.com/mohamedamineameur/comptia/middleware"
	adminRoutes "github.com/mohamedamineameur/comptia/routers/adminRoutes"
	authRoutes "github.com/mohamedamineameur/comptia/routers/authRoutes"
	catalogRoutes "github.com/mohamedamineameur/comptia/routers/catalogRoutes"
	progressRoutes "github.com/mohamedamineameur/comptia/routers/progressRoutes"
	quizRoutes "github.com/mohamedamineameur/comptia/routers/quizRoutes"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorResponse,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppConfig.ClientURL,
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization,Accept-Language",
		AllowCredentials: true,
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/api", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "CompTIA trainer API", fiber.Map{
			"name": "comptia-trainer",
		})
	})

	app.Get("/api/health", func(c *fiber.Ctx) error {
		sqlDB, err := database.Database.Db.DB()
		if err != nil || sqlDB.Ping() != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authRoutes.SetupAuthRoutes(app)
	catalogRoutes.SetupCatalogRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 1m", middleware.SweepGenerateLimiter); err != nil {
		log.Printf("Failed to schedule rate limiter sweep: %v", err)
	}
	if _, err := scheduler.AddFunc("@hourly", database.PurgeExpiredSessions); err != nil {
		log.Printf("Failed to schedule session purge: %v", err)
	}
	scheduler.Start()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
