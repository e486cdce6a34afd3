package main

import (
	"context"
	"log"
	"os"
	"time"

	"taplink/internal/database"
	"taplink/internal/repository"
)

// Removes unused coupons that expired more than 90 days ago. Used coupons
// are kept so the owner's redemption history stays complete.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	cutoff := time.Now().AddDate(0, 0, -90)
	deleted, err := repository.NewCouponRepository(db).DeleteExpiredBefore(context.Background(), cutoff)
	if err != nil {
		log.Fatalf("coupon cleanup failed: %v", err)
	}

	log.Printf("coupon cleanup completed: deleted=%d cutoff=%s", deleted, cutoff.Format(time.RFC3339))
}
