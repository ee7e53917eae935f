package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/davidfemi/Yelp-Camp-sub001/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ReservationEventsChannel is the Redis pub/sub channel carrying reservation
// lifecycle events for anything listening (dashboards, notifiers).
const ReservationEventsChannel = "campgrounds:reservations"

// EventPublisher emits best-effort notifications after a booking transaction
// has committed: a Notification row for in-app display and a JSON payload on
// a Redis channel. Every failure here is logged and swallowed; events never
// roll back, block, or delay the core paths. A nil Redis client degrades to
// DB rows only.
type EventPublisher struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewEventPublisher(db *gorm.DB, rdb *redis.Client) *EventPublisher {
	return &EventPublisher{db: db, redis: rdb}
}

type reservationEvent struct {
	Type          string    `json:"type"`
	ReservationID uint      `json:"reservationId"`
	CampgroundID  uint      `json:"campgroundId"`
	GuestID       uint      `json:"guestId,omitempty"`
	WindowEnd     time.Time `json:"windowEnd,omitempty"`
}

type driftEvent struct {
	Type         string `json:"type"`
	CampgroundID uint   `json:"campgroundId"`
	Before       int    `json:"before"`
	After        int    `json:"after"`
}

func (p *EventPublisher) ReservationCreated(r models.Reservation) {
	notification := models.Notification{
		UserID: r.GuestID,
		Type:   "reservation_confirmed",
		Title:  "Reservation Confirmed",
		Message: fmt.Sprintf("Your stay from %s to %s is confirmed. Total: %.2f",
			r.WindowStart.Format("January 2, 2006"),
			r.WindowEnd.Format("January 2, 2006"),
			r.TotalPrice),
		RefType: "reservation",
		RefID:   r.ID,
	}
	if err := p.db.Create(&notification).Error; err != nil {
		log.Printf("events: notification row for reservation %d not written: %v", r.ID, err)
	}

	p.publish(reservationEvent{
		Type:          "reservation.created",
		ReservationID: r.ID,
		CampgroundID:  r.CampgroundID,
		GuestID:       r.GuestID,
		WindowEnd:     r.WindowEnd,
	})
}

func (p *EventPublisher) ReservationCancelled(r models.Reservation) {
	p.publish(reservationEvent{
		Type:          "reservation.cancelled",
		ReservationID: r.ID,
		CampgroundID:  r.CampgroundID,
		GuestID:       r.GuestID,
	})
}

func (p *EventPublisher) ReservationsExpired(reservations []models.Reservation) {
	for _, r := range reservations {
		notification := models.Notification{
			UserID: r.GuestID,
			Type:   "reservation_expired",
			Title:  "Reservation Ended",
			Message: fmt.Sprintf("Your stay that ended %s has been checked out.",
				r.WindowEnd.Format("January 2, 2006")),
			RefType: "reservation",
			RefID:   r.ID,
		}
		if err := p.db.Create(&notification).Error; err != nil {
			log.Printf("events: notification row for reservation %d not written: %v", r.ID, err)
		}

		p.publish(reservationEvent{
			Type:          "reservation.expired",
			ReservationID: r.ID,
			CampgroundID:  r.CampgroundID,
			GuestID:       r.GuestID,
			WindowEnd:     r.WindowEnd,
		})
	}
}

func (p *EventPublisher) DriftCorrected(campgroundID uint, before, after int) {
	p.publish(driftEvent{
		Type:         "campground.drift_corrected",
		CampgroundID: campgroundID,
		Before:       before,
		After:        after,
	})
}

func (p *EventPublisher) publish(event interface{}) {
	if p.redis == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: marshal failed: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.redis.Publish(ctx, ReservationEventsChannel, payload).Err(); err != nil {
		log.Printf("events: publish failed: %v", err)
	}
}
