package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Schema mirrors database.Migrate, minus the Postgres-only column
// defaults, so handler tests run against a throwaway SQLite file.
var testSchema = []string{
	`CREATE TABLE users (
		id text PRIMARY KEY,
		first_name text NOT NULL,
		last_name text NOT NULL,
		email text NOT NULL UNIQUE,
		password text NOT NULL,
		phone text,
		role text NOT NULL DEFAULT 'student',
		is_active numeric DEFAULT true,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE bookings (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		date text NOT NULL,
		time text NOT NULL,
		duration_minutes integer NOT NULL DEFAULT 60,
		instructor_name text,
		notes text,
		status text NOT NULL DEFAULT 'scheduled',
		is_verified numeric NOT NULL DEFAULT false,
		rejection_reason text,
		user_package_id text,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE UNIQUE INDEX idx_bookings_active_slot
		ON bookings (date, time) WHERE status <> 'cancelled'`,
	`CREATE TABLE packages (
		id integer PRIMARY KEY AUTOINCREMENT,
		name text NOT NULL,
		description text,
		number_of_lessons integer NOT NULL DEFAULT 1,
		price numeric NOT NULL,
		original_price numeric,
		duration_hours numeric NOT NULL DEFAULT 1.0,
		validity_days integer NOT NULL DEFAULT 365,
		package_type text NOT NULL DEFAULT 'single',
		is_popular numeric NOT NULL DEFAULT false,
		features text,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE user_packages (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		package_id integer NOT NULL,
		package_name text NOT NULL,
		total_lessons integer NOT NULL,
		lessons_used integer NOT NULL DEFAULT 0,
		lessons_remaining integer NOT NULL,
		purchase_date datetime NOT NULL,
		expiry_date datetime NOT NULL,
		payment_intent_id text UNIQUE,
		purchase_price numeric DEFAULT 0.00,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE contact_messages (
		id integer PRIMARY KEY AUTOINCREMENT,
		name text NOT NULL,
		email text NOT NULL,
		phone text,
		subject text,
		message text NOT NULL,
		status text NOT NULL DEFAULT 'new',
		created_at datetime,
		updated_at datetime
	)`,
}

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	database.DB = db
}

// testApp mounts handlers behind a stand-in for the JWT middleware that
// injects the given user's claims.
func testApp(user *models.User, register func(app *fiber.App)) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"user_id": user.ID.String(),
			"role":    user.Role,
		}})
		return c.Next()
	})
	register(app)
	return app
}

func createTestUser(t *testing.T, role string) *models.User {
	t.Helper()

	user := &models.User{
		ID:        uuid.New(),
		FirstName: "Test",
		LastName:  "Student",
		Email:     uuid.NewString() + "@example.com",
		Password:  "not-a-real-hash",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func createTestUserPackage(t *testing.T, userID uuid.UUID, total, used int) *models.UserPackage {
	t.Helper()

	intent := "pi_" + uuid.NewString()
	entry := &models.UserPackage{
		ID:               uuid.New(),
		UserID:           userID,
		PackageID:        1,
		PackageName:      "Package A",
		TotalLessons:     total,
		LessonsUsed:      used,
		LessonsRemaining: total - used,
		PurchaseDate:     time.Now(),
		ExpiryDate:       time.Now().AddDate(0, 0, 365),
		PaymentIntentID:  &intent,
		PurchasePrice:    420,
	}
	require.NoError(t, database.DB.Create(entry).Error)
	return entry
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func decodeInto(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
