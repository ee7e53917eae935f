package main

import (
	"log"
	"os"
	"time"

	"github.com/davidfemi/Yelp-Camp-sub001/routes"
	"github.com/davidfemi/Yelp-Camp-sub001/services"
	"github.com/davidfemi/Yelp-Camp-sub001/storage"
	"github.com/davidfemi/Yelp-Camp-sub001/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	booking := services.NewBookingService(storage.DB,
		services.WithEvents(services.NewEventPublisher(storage.DB, storage.Redis)))

	sweepInterval := 10 * time.Minute
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("Invalid SWEEP_INTERVAL %q, using default %s", raw, sweepInterval)
		} else {
			sweepInterval = parsed
		}
	}
	scheduler := services.NewSweepScheduler(booking, sweepInterval)
	scheduler.Start()
	defer scheduler.Stop()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the dashboard (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, X-Operator")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	campgroundAPI := app.Party("/api/campgrounds")
	{
		campgroundAPI.Get("/", routes.GetCampgrounds)
		campgroundAPI.Get("/{id:uint}", routes.GetCampgroundByID)
		campgroundAPI.Get("/{id:uint}/reservations", routes.GetReservationsByCampgroundID)
		campgroundAPI.Post("/{id:uint}/reservations", utils.RateLimit(5, 10), routes.CreateReservation)
	}

	guestAPI := app.Party("/api/guests")
	{
		guestAPI.Get("/{id:uint}/reservations", routes.GetGuestReservations)
	}

	reservationAPI := app.Party("/api/reservations")
	{
		reservationAPI.Post("/{id:uint}/cancel", routes.CancelReservation)
	}

	maintenanceAPI := app.Party("/api/maintenance")
	{
		maintenanceAPI.Post("/sweep", routes.TriggerSweep)
		maintenanceAPI.Post("/reconcile", routes.TriggerReconcile)
		maintenanceAPI.Get("/expiration-stats", routes.GetExpirationStats)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	app.Listen(":" + port)
}
