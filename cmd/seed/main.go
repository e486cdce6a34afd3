package main

import (
	"context"
	"log"
	"os"
	"time"

	"taplink/internal/database"
	"taplink/internal/domain"
	"taplink/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "taplink.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM coupons")
	db.Exec("DELETE FROM views")
	db.Exec("DELETE FROM feedbacks")
	db.Exec("DELETE FROM businesses")
	db.Exec("DELETE FROM users")

	ctx := context.Background()

	log.Println("Creating demo owner...")
	hash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
	owner := domain.User{
		Email:        "owner@taplink.app",
		PasswordHash: string(hash),
		Name:         "Demo Owner",
		IsActive:     true,
	}
	db.Create(&owner)
	log.Println("Owner created: owner@taplink.app / owner123")

	log.Println("Creating demo business...")
	business := domain.Business{
		OwnerID:          owner.ID,
		Slug:             "salon-nour",
		Name:             "صالون نور",
		Email:            "owner@taplink.app",
		WhatsappPhone:    "+971501234567",
		GooglePlaceID:    "ChIJDemoPlace123",
		RewardsEnabled:   true,
		Reward5Type:      "discount",
		Reward5Value:     "20%",
		Reward5Details:   "خصم على الزيارة القادمة",
		Reward4Type:      "gift",
		Reward4Value:     "قهوة مجانية",
		RewardExpiryDays: 30,
	}
	db.Create(&business)
	log.Printf("Business created: /r/%s", business.Slug)

	log.Println("Creating sample feedback...")
	businesses := repository.NewBusinessRepository(db)
	feedbacks := repository.NewFeedbackRepository(db)
	for _, rating := range []int{5, 5, 4, 3, 1} {
		fb := &domain.Feedback{
			BusinessID: business.ID,
			Rating:     rating,
			Comment:    "تجربة رائعة",
			Status:     domain.FeedbackApproved,
			CreatedAt:  time.Now(),
		}
		if err := feedbacks.Create(ctx, fb); err != nil {
			log.Fatal("seed feedback failed:", err)
		}
		if err := businesses.ApplyFeedbackStats(ctx, business.ID, rating); err != nil {
			log.Fatal("seed stats failed:", err)
		}
	}

	log.Println("Seed completed")
}
