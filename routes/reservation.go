package routes

import (
	"errors"
	"time"

	"github.com/davidfemi/Yelp-Camp-sub001/models"
	"github.com/davidfemi/Yelp-Camp-sub001/services"
	"github.com/davidfemi/Yelp-Camp-sub001/storage"
	"github.com/davidfemi/Yelp-Camp-sub001/utils"

	"github.com/kataras/iris/v12"
)

func bookingService() *services.BookingService {
	return services.NewBookingService(storage.DB,
		services.WithEvents(services.NewEventPublisher(storage.DB, storage.Redis)))
}

type CreateReservationInput struct {
	GuestID   uint   `json:"guestID" validate:"required"`
	Nights    int    `json:"nights" validate:"required,gte=1,lte=30"`
	StartDate string `json:"startDate" validate:"required"`
	Note      string `json:"note"`
}

// POST /api/campgrounds/{id}/reservations
func CreateReservation(ctx iris.Context) {
	campgroundID := ctx.Params().GetUintDefault("id", 0)
	if campgroundID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid campground ID", ctx)
		return
	}

	var input CreateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	start, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid date format, expected YYYY-MM-DD", ctx)
		return
	}

	reservation, occupancy, err := bookingService().Reserve(campgroundID, input.GuestID, input.Nights, start, input.Note)
	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success":   true,
		"message":   "Reservation created successfully",
		"data":      reservation,
		"occupancy": occupancy,
	})
}

// GET /api/campgrounds/{id}/reservations
func GetReservationsByCampgroundID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var reservations []models.Reservation
	res := storage.DB.
		Where("campground_id = ?", id).
		Order("created_at DESC").
		Find(&reservations)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": reservations})
}

// GET /api/guests/{id}/reservations
func GetGuestReservations(ctx iris.Context) {
	guestID := ctx.Params().Get("id")

	var reservations []models.Reservation
	res := storage.DB.
		Preload("Campground").
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&reservations)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true, "data": reservations})
}

// POST /api/reservations/{id}/cancel
func CancelReservation(ctx iris.Context) {
	reservationID := ctx.Params().GetUintDefault("id", 0)
	if reservationID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid reservation ID", ctx)
		return
	}

	reservation, err := bookingService().Cancel(reservationID)
	if err != nil {
		respondBookingError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Reservation cancelled",
		"data":    reservation,
	})
}

func respondBookingError(ctx iris.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCampgroundNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Campground not found", ctx)
	case errors.Is(err, services.ErrReservationNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
	case errors.Is(err, services.ErrCampgroundFull):
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{"message": "No pitches available for this campground"})
	case errors.Is(err, services.ErrInvalidWindow):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
	default:
		utils.CreateError(iris.StatusInternalServerError, "Error", "Could not complete the reservation, please retry", ctx)
	}
}
