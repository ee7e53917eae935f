package services

import (
	"log"
	"sync"
	"time"

	"github.com/davidfemi/Yelp-Camp-sub001/models"

	"gorm.io/gorm"
)

// SweepResult reports what one sweep pass reclaimed.
type SweepResult struct {
	ExpiredCount  int `json:"expiredCount"`
	FreedCapacity int `json:"freedCapacity"`
}

// Sweep expires every active reservation whose window has elapsed and
// credits the pitch back to its campground. Safe to call concurrently with
// itself and with Reserve: the active -> expired status flip is the gate, so
// a reservation can only ever be expired (and credited) once, and the credit
// is a conditional decrement that cannot take committed below zero even on a
// drifted counter.
//
// A failure on one reservation is logged and skipped; the row stays active
// and is retried on the next pass. The same routine serves the inline
// pre-admission call, the background scheduler, and the operator endpoint.
func (s *BookingService) Sweep(now time.Time) (SweepResult, error) {
	var result SweepResult

	var due []models.Reservation
	if err := s.db.
		Where("status = ? AND window_end < ?", models.ReservationActive, now).
		Find(&due).Error; err != nil {
		return result, transient("scan elapsed reservations", err)
	}

	var swept []models.Reservation
	for i := range due {
		r := due[i]
		expired := false
		err := s.db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Reservation{}).
				Where("id = ? AND status = ?", r.ID, models.ReservationActive).
				UpdateColumn("status", models.ReservationExpired)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Another sweep (or a cancel) already settled this row.
				return nil
			}
			if err := tx.Model(&models.Campground{}).
				Where("id = ? AND committed > 0", r.CampgroundID).
				UpdateColumn("committed", gorm.Expr("committed - 1")).Error; err != nil {
				return err
			}
			expired = true
			return nil
		})
		if err != nil {
			log.Printf("sweep: reservation %d left active, will retry: %v", r.ID, err)
			continue
		}
		if !expired {
			continue
		}
		r.Status = models.ReservationExpired
		swept = append(swept, r)
		result.ExpiredCount++
		result.FreedCapacity++
	}

	if s.events != nil && len(swept) > 0 {
		go s.events.ReservationsExpired(swept)
	}
	return result, nil
}

// SweepScheduler drives Sweep on a fixed interval. It is owned by the
// process lifecycle: Start launches the loop, Stop shuts it down and waits
// for the in-flight pass to finish. Stop is safe to call more than once but
// must follow Start.
type SweepScheduler struct {
	svc      *BookingService
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewSweepScheduler(svc *BookingService, interval time.Duration) *SweepScheduler {
	return &SweepScheduler{
		svc:      svc,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (sc *SweepScheduler) Start() {
	go sc.run()
}

func (sc *SweepScheduler) Stop() {
	sc.once.Do(func() { close(sc.stop) })
	<-sc.done
}

func (sc *SweepScheduler) run() {
	defer close(sc.done)

	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-sc.stop:
			return
		case <-ticker.C:
			result, err := sc.svc.Sweep(sc.svc.now())
			if err != nil {
				log.Printf("sweep: scheduled pass failed: %v", err)
				continue
			}
			if result.ExpiredCount > 0 {
				log.Printf("sweep: expired %d reservations, freed %d pitches",
					result.ExpiredCount, result.FreedCapacity)
			}
		}
	}
}
