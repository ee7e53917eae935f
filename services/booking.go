package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/davidfemi/Yelp-Camp-sub001/models"

	"gorm.io/gorm"
)

// BookingService is the admission path for new reservations plus the
// expiration sweep and reconciliation that keep the campground committed
// cache honest. All three share the same storage discipline: the committed
// counter is only touched by conditional single-statement updates paired in
// one transaction with the reservation row they account for.
type BookingService struct {
	db     *gorm.DB
	now    func() time.Time
	events *EventPublisher
}

type BookingOption func(*BookingService)

// WithClock replaces the wall clock, so tests can drive sweeps and window
// validation deterministically.
func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

// WithEvents attaches a best-effort publisher invoked after commits.
func WithEvents(events *EventPublisher) BookingOption {
	return func(s *BookingService) { s.events = events }
}

func NewBookingService(db *gorm.DB, opts ...BookingOption) *BookingService {
	s := &BookingService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CampgroundOccupancy is a point-in-time snapshot returned to the caller for
// display. It is never read back into an admission decision.
type CampgroundOccupancy struct {
	Committed int `json:"committed"`
	Capacity  int `json:"capacity"`
}

// Reserve admits a guest against a campground's remaining capacity.
//
// Expired holds are swept first so a guest is not turned away because of
// garbage the background sweeper has not collected yet. The capacity check
// and debit are a single conditional UPDATE, so concurrent calls against the
// same campground serialize at the storage layer: exactly capacity of them
// can win, no matter how they interleave. The debit and the reservation
// insert commit together or not at all.
func (s *BookingService) Reserve(campgroundID, guestID uint, nights int, start time.Time, note string) (*models.Reservation, *CampgroundOccupancy, error) {
	now := s.now()
	if nights < 1 {
		return nil, nil, fmt.Errorf("%w: nights must be at least 1", ErrInvalidWindow)
	}
	if start.Before(now.Truncate(24 * time.Hour)) {
		return nil, nil, fmt.Errorf("%w: start date is in the past", ErrInvalidWindow)
	}

	if _, err := s.Sweep(now); err != nil {
		// Admission can still proceed on a stale cache; the next sweep
		// or a reconcile catches up.
		log.Printf("reserve: pre-admission sweep failed: %v", err)
	}

	windowEnd := start.AddDate(0, 0, nights)

	var reservation models.Reservation
	var occupancy CampgroundOccupancy
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var campground models.Campground
		if err := tx.First(&campground, campgroundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCampgroundNotFound
			}
			return transient("load campground", err)
		}

		res := tx.Model(&models.Campground{}).
			Where("id = ? AND committed < capacity", campgroundID).
			UpdateColumn("committed", gorm.Expr("committed + 1"))
		if res.Error != nil {
			return transient("debit campground", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCampgroundFull
		}

		reservation = models.Reservation{
			CampgroundID: campgroundID,
			GuestID:      guestID,
			WindowStart:  start,
			WindowEnd:    windowEnd,
			Status:       models.ReservationActive,
			TotalPrice:   float64(nights) * campground.Price,
			Note:         note,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return transient("create reservation", err)
		}

		// Re-read inside the transaction so the snapshot reflects our debit.
		if err := tx.First(&campground, campgroundID).Error; err != nil {
			return transient("load occupancy", err)
		}
		occupancy = CampgroundOccupancy{Committed: campground.Committed, Capacity: campground.Capacity}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if s.events != nil {
		go s.events.ReservationCreated(reservation)
	}
	return &reservation, &occupancy, nil
}

// Cancel transitions a reservation to cancelled and credits the pitch back.
// Cancellation is terminal; for capacity accounting it behaves exactly like
// expiry, including the active-status gate that makes a racing sweep and
// cancel credit the campground only once. Cancelling an already terminal
// reservation is a no-op.
func (s *BookingService) Cancel(reservationID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.First(&reservation, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, transient("load reservation", err)
	}

	cancelled := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", reservationID, models.ReservationActive).
			UpdateColumn("status", models.ReservationCancelled)
		if res.Error != nil {
			return transient("cancel reservation", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.Campground{}).
			Where("id = ? AND committed > 0", reservation.CampgroundID).
			UpdateColumn("committed", gorm.Expr("committed - 1")).Error; err != nil {
			return transient("credit campground", err)
		}
		cancelled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cancelled {
		reservation.Status = models.ReservationCancelled
		if s.events != nil {
			go s.events.ReservationCancelled(reservation)
		}
		return &reservation, nil
	}

	// The gate lost: a sweep (or an earlier cancel) settled this row first.
	// Re-read so the caller sees the terminal state, not the pre-load.
	if err := s.db.First(&reservation, reservationID).Error; err != nil {
		return nil, transient("reload reservation", err)
	}
	return &reservation, nil
}
