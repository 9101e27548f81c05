package main

import (
	"log"
	"time"

	config "github.com/alxtravel/alx_travel_app/configs"
	"github.com/alxtravel/alx_travel_app/database"
	"github.com/alxtravel/alx_travel_app/handlers"
	"github.com/alxtravel/alx_travel_app/jobs"
	"github.com/alxtravel/alx_travel_app/notifications"
	"github.com/alxtravel/alx_travel_app/payments"
	"github.com/alxtravel/alx_travel_app/routes"
	"github.com/alxtravel/alx_travel_app/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedSampleData()
	notifications.InitEmailService()

	chapaCfg := config.LoadChapaConfig()
	dispatcher := jobs.NewDispatcher(64, 2)
	paymentService := services.NewPaymentService(
		database.DB,
		payments.NewChapaClient(chapaCfg),
		dispatcher,
		chapaCfg,
	)
	handlers.InitPaymentHandlers(paymentService)

	c := cron.New()
	c.AddFunc("*/10 * * * *", func() { jobs.ReconcilePendingPayments(paymentService) })
	go c.Start()
	log.Println("✅ Payment reconciliation job scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "ALX Travel",
		CaseSensitive:     true,
		StrictRouting:     false,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, x-chapa-signature",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to ALX Travel API",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	routes.AuthRoutes(app)
	routes.ListingRoutes(app)
	routes.BookingRoutes(app)
	routes.PaymentRoutes(app)

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
