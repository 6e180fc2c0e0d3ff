package database

import (
	"fmt"
	"log"

	config "github.com/truthdriving/driving_school/configs"
	"github.com/truthdriving/driving_school/models"
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
		TranslateError:         true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Package{},
		&models.UserPackage{},
		&models.ContactMessage{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}

	// Slots are exclusive only among non-cancelled bookings, so a partial
	// index is needed; AutoMigrate cannot express it.
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
		 ON bookings (date, time) WHERE status <> 'cancelled'`,
	).Error; err != nil {
		log.Fatalf("🔥 Failed to create active slot index: %v", err)
	}

	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	adminUser := models.User{
		FirstName: config.Config("ADMIN_FIRST_NAME"),
		LastName:  config.Config("ADMIN_LAST_NAME"),
		Email:     adminEmail,
		Password:  string(hashedPassword),
		Role:      "admin",
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}

func float64Ptr(v float64) *float64 { return &v }

// SeedPackages loads the initial lesson catalog once, on an empty table.
func SeedPackages() {
	var count int64
	if err := DB.Model(&models.Package{}).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for existing packages: %v", err)
		return
	}
	if count > 0 {
		log.Println("Packages already seeded.")
		return
	}

	packages := []models.Package{
		{
			Name:            "1 Hour Driving Lesson",
			Description:     "One lesson, to evaluate and prepare for your road test",
			NumberOfLessons: 1,
			Price:           80,
			OriginalPrice:   float64Ptr(110),
			DurationHours:   1,
			ValidityDays:    365,
			PackageType:     models.PackageTypeSingle,
			Features:        []string{"One lesson evaluation", "Road test preparation", "Individual assessment"},
		},
		{
			Name:            "1.5 Hours Driving Lessons",
			Description:     "Perfect for intermediate or experienced drivers wanting a reminder of driving skills",
			NumberOfLessons: 1,
			Price:           110,
			OriginalPrice:   float64Ptr(150),
			DurationHours:   1.5,
			ValidityDays:    365,
			PackageType:     models.PackageTypeSingle,
			Features:        []string{"Perfect for intermediate drivers", "Experienced driver refresher", "Reminder of driving skills"},
		},
		{
			Name:            "Package A",
			Description:     "In this package you will get four 90 minutes lessons. Total hours 6 behind the wheel.",
			NumberOfLessons: 4,
			Price:           420,
			OriginalPrice:   float64Ptr(600),
			DurationHours:   6,
			ValidityDays:    365,
			PackageType:     models.PackageTypePackage,
			IsPopular:       true,
			Features:        []string{"Four 90-minute lessons", "Total 6 hours behind the wheel", "Comprehensive training"},
		},
		{
			Name:            "Package B",
			Description:     "In this package you will get six 90 minutes lessons. Total hours 9 behind the wheel.",
			NumberOfLessons: 6,
			Price:           610,
			OriginalPrice:   float64Ptr(700),
			DurationHours:   9,
			ValidityDays:    365,
			PackageType:     models.PackageTypePackage,
			Features:        []string{"Six 90-minute lessons", "Total 9 hours behind the wheel", "Extended training program"},
		},
		{
			Name:            "Package C",
			Description:     "In this package you will get ten 90 minutes lessons. Total hours 15 behind the wheel.",
			NumberOfLessons: 10,
			Price:           1000,
			OriginalPrice:   float64Ptr(1200),
			DurationHours:   15,
			ValidityDays:    365,
			PackageType:     models.PackageTypePackage,
			Features:        []string{"Ten 90-minute lessons", "Total 15 hours behind the wheel", "Comprehensive training program"},
		},
		{
			Name:            "Road Test",
			Description:     "In this package you will get 60 minutes refresher lesson and a school vehicle for road testing.",
			NumberOfLessons: 1,
			Price:           170,
			OriginalPrice:   float64Ptr(200),
			DurationHours:   1,
			ValidityDays:    365,
			PackageType:     models.PackageTypeRoadTest,
			IsPopular:       true,
			Features:        []string{"60 minutes refresher lesson", "School vehicle for road testing", "Complete road test support"},
		},
	}

	if err := DB.Create(&packages).Error; err != nil {
		log.Fatalf("🔥 Failed to seed packages: %v", err)
		return
	}
	log.Println("✅ Lesson packages seeded successfully")
}
