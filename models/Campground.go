package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Campground is a bookable listing with a finite number of pitches.
// Committed is a persisted cache of the count of active reservations so the
// admission check stays O(1). The reservations table is the source of truth;
// the reconciler repairs the cache if they ever disagree. The column is only
// mutated through conditional single-statement updates, never
// read-modify-write in Go.
type Campground struct {
	gorm.Model
	Title       string         `json:"title" gorm:"not null"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	Price       float64        `json:"price" gorm:"not null"` // per night
	Images      datatypes.JSON `json:"images"`

	Capacity  int `json:"capacity" gorm:"not null;default:1"`
	Committed int `json:"committed" gorm:"not null;default:0"`
}
