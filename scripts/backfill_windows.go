package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/davidfemi/Yelp-Camp-sub001/services"
	"github.com/davidfemi/Yelp-Camp-sub001/storage"
)

// One-shot migration: derive reservation windows for rows created before
// window tracking existed. Run once before starting the service:
//
//	go run ./scripts -nights 2
func main() {
	nights := flag.Int("nights", 1, "stay length assumed for legacy reservations")
	flag.Parse()

	db := storage.InitializeDB()

	updated, err := services.BackfillReservationWindows(db, *nights)
	if err != nil {
		log.Fatalf("Error backfilling reservation windows: %v", err)
	}

	fmt.Printf("Backfilled windows on %d legacy reservations\n", updated)
}
