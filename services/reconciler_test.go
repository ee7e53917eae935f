package services

import (
	"errors"
	"testing"
	"time"

	"github.com/davidfemi/Yelp-Camp-sub001/models"

	"gorm.io/gorm"
)

func TestReconcileRestoresCorruptedCounter(t *testing.T) {
	db := newTestDB(t)
	campground := createCampground(t, db, 5, 30)
	clock := &testClock{now: time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewBookingService(db, WithClock(clock.Now))

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, _, err := svc.Reserve(campground.ID, uint(i+1), 5, start, ""); err != nil {
			t.Fatalf("reserve %d: %v", i, err)
		}
	}

	// Manual data edit knocks the cache off the ground truth.
	if err := db.Model(&models.Campground{}).
		Where("id = ?", campground.ID).
		UpdateColumn("committed", 5).Error; err != nil {
		t.Fatalf("corrupt committed: %v", err)
	}

	fixed, err := svc.Reconcile()
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if fixed != 1 {
		t.Errorf("fixed = %d, want 1", fixed)
	}
	if got := committedOf(t, db, campground.ID); got != 3 {
		t.Errorf("committed = %d, want 3", got)
	}
}

func TestReconcileIgnoresElapsedAndTerminalRows(t *testing.T) {
	db := newTestDB(t)
	campground := createCampground(t, db, 5, 30)
	clock := &testClock{now: time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewBookingService(db, WithClock(clock.Now))

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	short, _, err := svc.Reserve(campground.ID, 1, 1, start, "")
	if err != nil {
		t.Fatalf("reserve short: %v", err)
	}
	if _, _, err := svc.Reserve(campground.ID, 2, 10, start, ""); err != nil {
		t.Fatalf("reserve long: %v", err)
	}
	cancelled, _, err := svc.Reserve(campground.ID, 3, 10, start, "")
	if err != nil {
		t.Fatalf("reserve to cancel: %v", err)
	}
	if _, err := svc.Cancel(cancelled.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Two days on, the short stay has elapsed but nobody swept it: the row
	// is still active, so the cache (2) disagrees with ground truth (1).
	clock.Advance(48 * time.Hour)
	if got := statusOf(t, db, short.ID); got != models.ReservationActive {
		t.Fatalf("short stay status = %q, want still active before reconcile", got)
	}

	fixed, err := svc.Reconcile()
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if fixed != 1 {
		t.Errorf("fixed = %d, want 1", fixed)
	}
	if got := committedOf(t, db, campground.ID); got != 1 {
		t.Errorf("committed = %d, want 1 (only the unexpired active row)", got)
	}
}

func TestReconcileReportsZeroWhenClean(t *testing.T) {
	db := newTestDB(t)
	campground := createCampground(t, db, 3, 30)
	clock := &testClock{now: time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewBookingService(db, WithClock(clock.Now))

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	if _, _, err := svc.Reserve(campground.ID, 1, 5, start, ""); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	fixed, err := svc.Reconcile()
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if fixed != 0 {
		t.Errorf("fixed = %d, want 0", fixed)
	}
	if got := committedOf(t, db, campground.ID); got != 1 {
		t.Errorf("committed = %d, want 1", got)
	}
}

func TestReconcileSkipsCampgroundMovedMidPass(t *testing.T) {
	db := newTestDB(t)
	campground := createCampground(t, db, 5, 30)
	clock := &testClock{now: time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewBookingService(db, WithClock(clock.Now))

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, _, err := svc.Reserve(campground.ID, uint(i+1), 5, start, ""); err != nil {
			t.Fatalf("reserve %d: %v", i, err)
		}
	}

	// Drift the cache below the ground truth of 3.
	if err := db.Model(&models.Campground{}).
		Where("id = ?", campground.ID).
		UpdateColumn("committed", 1).Error; err != nil {
		t.Fatalf("corrupt committed: %v", err)
	}

	// Squeeze an admission between the reconciler's count and its
	// corrective write. The write must miss, not clobber the debit.
	interleaved := false
	const cbName = "test:interleave_admission"
	if err := db.Callback().Update().Before("gorm:update").Register(cbName, func(tx *gorm.DB) {
		if interleaved || tx.Statement.Table != "campgrounds" {
			return
		}
		interleaved = true
		if _, _, err := svc.Reserve(campground.ID, 99, 5, start, ""); err != nil {
			t.Errorf("interleaved reserve: %v", err)
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}
	defer db.Callback().Update().Remove(cbName)

	fixed, err := svc.Reconcile()
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !interleaved {
		t.Fatal("admission never interleaved with the pass")
	}
	if fixed != 0 {
		t.Errorf("fixed = %d, want 0 (write should miss when the counter moved)", fixed)
	}
	if got := committedOf(t, db, campground.ID); got != 2 {
		t.Errorf("committed = %d, want 2 (the interleaved debit must survive)", got)
	}

	// A quiet pass settles the counter on the new ground truth.
	fixed, err = svc.Reconcile()
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if fixed != 1 {
		t.Errorf("second pass fixed = %d, want 1", fixed)
	}
	if got := committedOf(t, db, campground.ID); got != 4 {
		t.Errorf("committed = %d, want 4", got)
	}
}

func TestReconcileContinuesPastFailedCampground(t *testing.T) {
	db := newTestDB(t)
	first := createCampground(t, db, 5, 30)
	second := createCampground(t, db, 5, 30)
	clock := &testClock{now: time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewBookingService(db, WithClock(clock.Now))

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	if _, _, err := svc.Reserve(first.ID, 1, 5, start, ""); err != nil {
		t.Fatalf("reserve first: %v", err)
	}
	if _, _, err := svc.Reserve(second.ID, 2, 5, start, ""); err != nil {
		t.Fatalf("reserve second: %v", err)
	}
	for _, id := range []uint{first.ID, second.ID} {
		if err := db.Model(&models.Campground{}).
			Where("id = ?", id).
			UpdateColumn("committed", 4).Error; err != nil {
			t.Fatalf("corrupt committed: %v", err)
		}
	}

	// The first campground's corrective write fails once; the pass must
	// still fix the second and report no overall error.
	armed := true
	const cbName = "test:fail_first_campground"
	if err := db.Callback().Update().Before("gorm:update").Register(cbName, func(tx *gorm.DB) {
		if !armed || tx.Statement.Table != "campgrounds" {
			return
		}
		for _, v := range tx.Statement.Vars {
			if id, ok := v.(uint); ok && id == first.ID {
				armed = false
				tx.AddError(errors.New("storage offline"))
				return
			}
		}
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}
	defer db.Callback().Update().Remove(cbName)

	fixed, err := svc.Reconcile()
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if fixed != 1 {
		t.Errorf("fixed = %d, want 1 (the healthy campground)", fixed)
	}
	if got := committedOf(t, db, first.ID); got != 4 {
		t.Errorf("first committed = %d, want untouched 4 after failed write", got)
	}
	if got := committedOf(t, db, second.ID); got != 1 {
		t.Errorf("second committed = %d, want corrected 1", got)
	}

	// The failed campground is picked up by the next pass.
	fixed, err = svc.Reconcile()
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if fixed != 1 {
		t.Errorf("second pass fixed = %d, want 1", fixed)
	}
	if got := committedOf(t, db, first.ID); got != 1 {
		t.Errorf("first committed = %d, want corrected 1", got)
	}
}
