package database

import (
	"log"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase(databaseURL string) *gorm.DB {
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Story{},
		&models.UserStory{},
		&models.WishlistItem{},
		&models.Review{},
		&models.Referral{},
		&models.ReferralTier{},
		&models.Purchase{},
		&models.WebhookEvent{},
		&models.NewsSettings{},
		&models.NewsEpisode{},
		&models.NewsAccess{},
		&models.NewsDeliveryQueue{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	seedReferralTiers(db)

	return db
}

// seedReferralTiers inserts the reward schedule once; existing rows are left
// alone so the schedule stays editable in the database.
func seedReferralTiers(db *gorm.DB) {
	tiers := []models.ReferralTier{
		{TierName: "starter", MinReferrals: 0, RewardCredits: 3},
		{TierName: "navigator", MinReferrals: 5, RewardCredits: 5},
		{TierName: "road_captain", MinReferrals: 15, RewardCredits: 8},
		{TierName: "convoy_leader", MinReferrals: 40, RewardCredits: 12},
	}

	for _, tier := range tiers {
		var existing models.ReferralTier
		if err := db.Where("tier_name = ?", tier.TierName).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&tier).Error; err != nil {
				log.Printf("Failed to seed referral tier %s: %v", tier.TierName, err)
			}
		}
	}
}
