package services

import (
	"testing"
	"time"

	"github.com/davidfemi/Yelp-Camp-sub001/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// :memory: gives every pooled connection its own database; pin to one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Campground{},
		&models.Reservation{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createCampground(t *testing.T, db *gorm.DB, capacity int, price float64) models.Campground {
	t.Helper()
	campground := models.Campground{
		Title:    "Hollow Pines",
		Location: "Lake District",
		Price:    price,
		Capacity: capacity,
	}
	if err := db.Create(&campground).Error; err != nil {
		t.Fatalf("create campground: %v", err)
	}
	return campground
}

func committedOf(t *testing.T, db *gorm.DB, campgroundID uint) int {
	t.Helper()
	var campground models.Campground
	if err := db.First(&campground, campgroundID).Error; err != nil {
		t.Fatalf("load campground %d: %v", campgroundID, err)
	}
	return campground.Committed
}

func statusOf(t *testing.T, db *gorm.DB, reservationID uint) string {
	t.Helper()
	var reservation models.Reservation
	if err := db.First(&reservation, reservationID).Error; err != nil {
		t.Fatalf("load reservation %d: %v", reservationID, err)
	}
	return reservation.Status
}

// testClock is a settable clock for driving sweeps deterministically.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func (c *testClock) Set(t time.Time)         { c.now = t }
