package database

import (
	"fmt"
	"log"
	"time"

	config "github.com/alxtravel/alx_travel_app/configs"
	"github.com/alxtravel/alx_travel_app/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:            false,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Review{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedSampleData populates a development database with a host, a guest, and
// a handful of listings with bookings and reviews. Guarded by
// SEED_SAMPLE_DATA so it never runs against a real deployment.
func SeedSampleData() {
	if config.Config("SEED_SAMPLE_DATA") != "true" {
		return
	}

	var count int64
	if err := DB.Model(&models.Listing{}).Count(&count).Error; err != nil {
		log.Printf("🔥 Failed to check for existing listings: %v", err)
		return
	}
	if count > 0 {
		log.Println("Sample data already present, skipping seed.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("🔥 Failed to hash seed password: %v", err)
		return
	}

	host := models.User{
		FirstName: "Hana", LastName: "Tesfaye",
		Email: "host@example.com", Password: string(hashed), Role: "host",
	}
	guest := models.User{
		FirstName: "Abel", LastName: "Bekele",
		Email: "guest@example.com", Password: string(hashed), Role: "guest",
	}
	if err := DB.Create(&host).Error; err != nil {
		log.Printf("🔥 Failed to seed host user: %v", err)
		return
	}
	if err := DB.Create(&guest).Error; err != nil {
		log.Printf("🔥 Failed to seed guest user: %v", err)
		return
	}

	checkIn := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	checkOut := checkIn.AddDate(0, 0, 5)

	for i := 1; i <= 10; i++ {
		listing := models.Listing{
			HostID:        host.ID,
			Title:         fmt.Sprintf("Sample Listing %d", i),
			Description:   "A beautiful place to stay.",
			Location:      fmt.Sprintf("City %d", i),
			PricePerNight: float64(50 + 25*i),
		}
		if err := DB.Create(&listing).Error; err != nil {
			log.Printf("🔥 Failed to seed listing: %v", err)
			return
		}

		booking := models.Booking{
			ListingID:  listing.ID,
			GuestID:    guest.ID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Guests:     2,
			TotalPrice: listing.PricePerNight * 5,
			Status:     models.BookingStatusPending,
		}
		if err := DB.Create(&booking).Error; err != nil {
			log.Printf("🔥 Failed to seed booking: %v", err)
			return
		}

		review := models.Review{
			BookingID: booking.ID,
			ListingID: listing.ID,
			GuestID:   guest.ID,
			Rating:    1 + i%5,
			Comment:   "Great stay!",
		}
		if err := DB.Create(&review).Error; err != nil {
			log.Printf("🔥 Failed to seed review: %v", err)
			return
		}
	}

	log.Println("✅ Sample data seeded successfully")
}
