package services

import (
	"time"

	"github.com/davidfemi/Yelp-Camp-sub001/models"
)

// ExpirationStats counts active reservations about to release capacity, for
// operational dashboards.
type ExpirationStats struct {
	ExpiringToday    int64 `json:"expiringToday"`
	ExpiringThisWeek int64 `json:"expiringThisWeek"`
}

// ExpirationStats is a pure read over the reservations table: active rows
// with window_end inside [now, end of today] and [now, now+7d].
func (s *BookingService) ExpirationStats(now time.Time) (ExpirationStats, error) {
	var stats ExpirationStats

	startOfTomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, 1)
	if err := s.db.Model(&models.Reservation{}).
		Where("status = ? AND window_end >= ? AND window_end < ?",
			models.ReservationActive, now, startOfTomorrow).
		Count(&stats.ExpiringToday).Error; err != nil {
		return stats, transient("count expiring today", err)
	}

	weekOut := now.AddDate(0, 0, 7)
	if err := s.db.Model(&models.Reservation{}).
		Where("status = ? AND window_end >= ? AND window_end <= ?",
			models.ReservationActive, now, weekOut).
		Count(&stats.ExpiringThisWeek).Error; err != nil {
		return stats, transient("count expiring this week", err)
	}

	return stats, nil
}
