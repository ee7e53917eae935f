package services

import (
	"log"
	"time"

	"github.com/davidfemi/Yelp-Camp-sub001/models"

	"gorm.io/gorm"
)

// Check-in/check-out convention that predates the window columns.
const (
	legacyCheckInHour  = 14
	legacyCheckOutHour = 11
)

// legacyWindowCutoff separates real windows from the zero values carried by
// rows created before the window columns existed.
var legacyWindowCutoff = time.Date(1000, time.January, 1, 0, 0, 0, 0, time.UTC)

// BackfillReservationWindows is the one-time migration for reservations that
// predate window tracking. Each legacy row gets a window derived from its
// booking date: check-in at 14:00 local on the day it was created, check-out
// at 11:00 local defaultNights nights later. Run from scripts/ before the
// service starts; the request paths never branch on a missing window.
// Re-running is a no-op for rows already backfilled.
func BackfillReservationWindows(db *gorm.DB, defaultNights int) (int, error) {
	if defaultNights < 1 {
		defaultNights = 1
	}

	var legacy []models.Reservation
	if err := db.
		Where("window_end IS NULL OR window_end < ?", legacyWindowCutoff).
		Find(&legacy).Error; err != nil {
		return 0, transient("scan legacy reservations", err)
	}

	updated := 0
	for _, r := range legacy {
		created := r.CreatedAt
		start := time.Date(created.Year(), created.Month(), created.Day(),
			legacyCheckInHour, 0, 0, 0, time.Local)
		checkout := start.AddDate(0, 0, defaultNights)
		end := time.Date(checkout.Year(), checkout.Month(), checkout.Day(),
			legacyCheckOutHour, 0, 0, 0, time.Local)

		if err := db.Model(&models.Reservation{}).
			Where("id = ?", r.ID).
			UpdateColumns(map[string]interface{}{
				"window_start": start,
				"window_end":   end,
			}).Error; err != nil {
			log.Printf("backfill: reservation %d skipped: %v", r.ID, err)
			continue
		}
		updated++
	}
	return updated, nil
}
