package services

import (
	"log"

	"github.com/davidfemi/Yelp-Camp-sub001/models"
)

// Reconcile recomputes every campground's committed cache from the
// reservations table and overwrites the cache where it drifted. The
// reservation rows are ground truth; only active reservations whose window
// has not elapsed count. Safe to run at any time, including alongside
// admissions and sweeps. A single bad campground never aborts the pass.
//
// Returns the number of campgrounds whose counters were corrected. Drift is
// not an error, but it means something upstream mutated state outside the
// booking paths, so every fix is logged and emitted for auditing.
func (s *BookingService) Reconcile() (int, error) {
	now := s.now()

	var campgrounds []models.Campground
	if err := s.db.Find(&campgrounds).Error; err != nil {
		return 0, transient("list campgrounds", err)
	}

	fixed := 0
	for _, campground := range campgrounds {
		var truth int64
		if err := s.db.Model(&models.Reservation{}).
			Where("campground_id = ? AND status = ? AND window_end >= ?",
				campground.ID, models.ReservationActive, now).
			Count(&truth).Error; err != nil {
			log.Printf("reconcile: campground %d skipped: %v", campground.ID, err)
			continue
		}
		if int(truth) == campground.Committed {
			continue
		}

		// Compare-and-set against the committed value we observed. Every
		// legitimate mutation path changes committed, so a miss means an
		// admission or sweep moved the cache under us; its paired row
		// mutation moved the ground truth too, and the next pass
		// recomputes from there.
		res := s.db.Model(&models.Campground{}).
			Where("id = ? AND committed = ?", campground.ID, campground.Committed).
			UpdateColumn("committed", truth)
		if res.Error != nil {
			log.Printf("reconcile: campground %d not corrected: %v", campground.ID, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			log.Printf("reconcile: campground %d moved during the pass, skipping", campground.ID)
			continue
		}

		log.Printf("reconcile: campground %d committed drifted %d -> %d",
			campground.ID, campground.Committed, truth)
		if s.events != nil {
			go s.events.DriftCorrected(campground.ID, campground.Committed, int(truth))
		}
		fixed++
	}
	return fixed, nil
}
