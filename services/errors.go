package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the booking core. Callers match with errors.Is;
// raw storage errors never escape this package except wrapped under
// ErrTransientStore.
var (
	ErrCampgroundNotFound  = errors.New("campground not found")
	ErrCampgroundFull      = errors.New("campground is fully committed")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidWindow       = errors.New("invalid reservation window")
	ErrTransientStore      = errors.New("transient storage error")
)

// transient wraps a storage-layer failure. The whole operation that produced
// it is safe to re-attempt; retry policy belongs to the caller.
func transient(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrTransientStore, op, err)
}
