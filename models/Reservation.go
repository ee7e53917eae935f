package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReservationActive    = "active"
	ReservationExpired   = "expired"
	ReservationCancelled = "cancelled"
)

// Reservation is a guest's claim on one pitch of a campground for the
// half-open window [WindowStart, WindowEnd). Only active reservations count
// against the campground's committed cache; expired and cancelled are
// terminal states and the rows are kept for history, never deleted.
type Reservation struct {
	gorm.Model
	CampgroundID uint      `json:"campgroundID" gorm:"not null;index"`
	GuestID      uint      `json:"guestID" gorm:"not null;index"`
	WindowStart  time.Time `json:"windowStart"`
	WindowEnd    time.Time `json:"windowEnd" gorm:"index"`
	Status       string    `json:"status" gorm:"size:12;index"` // active | expired | cancelled
	TotalPrice   float64   `json:"totalPrice"`
	Note         string    `json:"note"`

	Campground *Campground `json:"campground,omitempty" gorm:"foreignKey:CampgroundID"`
}
