package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"home-booking/constants"
	bookingController "home-booking/controllers/booking"
	providerController "home-booking/controllers/provider"
	serverController "home-booking/controllers/server"
	serviceController "home-booking/controllers/service"
	"home-booking/httpServices/profile"
	"home-booking/logger"
	"home-booking/middleware"
	"home-booking/repository"
	"home-booking/services/assignment"
	"home-booking/services/checkout"
	"home-booking/services/feed"
	"home-booking/services/payment"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)

	var profileClient *profile.Client
	if baseURL := os.Getenv("PROFILE_BASE_URL"); baseURL != "" {
		profileClient = profile.NewClient(baseURL)
	}

	repo := repository.NewGormBookingRepository(db)
	engine := assignment.NewEngine(repo)
	feedService := feed.NewService(repo)
	aggregator := checkout.NewAggregator(repo)
	payments := payment.NewTracker(repo)

	bookings := bookingController.NewBookingController(db, repo, aggregator, payments, profileClient, asyncLogger)
	providers := providerController.NewProviderController(db, repo, engine, feedService, asyncLogger)
	services := serviceController.NewServiceController(db)
	health := serverController.NewHealthController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Use(middleware.RequestLogger(asyncLogger))

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Get("/health", health.Health)
	api.Get("/services", services.Index)

	/*=============================================================================
	| Customer Routes
	===============================================================================*/
	bookingGroup := api.Group("/booking")

	bookingGroup.Post("/checkout", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), bookings.Checkout)

	bookingGroup.Get("/mine", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), bookings.MyBookings)

	bookingGroup.Patch("/:id/contact", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), bookings.AmendContact)

	bookingGroup.Post("/:id/pay", middleware.RequirePermissions(
		constants.PermCustomerFull,
		constants.PermAdminFull,
	), bookings.MarkPaid)

	/*=============================================================================
	| Provider Routes
	===============================================================================*/
	providerGroup := api.Group("/provider")

	providerGroup.Get("/feed", middleware.RequirePermissions(
		constants.PermProviderFull,
	), providers.GetFeed)

	providerGroup.Get("/assigned", middleware.RequirePermissions(
		constants.PermProviderFull,
	), providers.GetAssigned)

	providerGroup.Post("/claim", middleware.RequirePermissions(
		constants.PermProviderFull,
	), providers.Claim)

	providerGroup.Post("/ignore", middleware.RequirePermissions(
		constants.PermProviderFull,
	), providers.Ignore)

	providerGroup.Post("/unignore", middleware.RequirePermissions(
		constants.PermProviderFull,
	), providers.Unignore)

	providerGroup.Post("/release", middleware.RequirePermissions(
		constants.PermProviderFull,
		constants.PermAdminFull,
	), providers.Release)

	providerGroup.Post("/complete", middleware.RequirePermissions(
		constants.PermProviderFull,
		constants.PermAdminFull,
	), providers.Complete)
}
