package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var flowSchema = []string{
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
}

func setupFlowDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	for _, stmt := range flowSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	database.DB = db
}

func seedFlowUser(t *testing.T) *models.User {
	t.Helper()

	user := &models.User{
		ID:        uuid.New(),
		FirstName: "Test",
		LastName:  "Student",
		Email:     uuid.NewString() + "@example.com",
		Password:  "not-a-real-hash",
		Role:      "student",
		IsActive:  true,
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

// stripeStub serves one checkout session object for every request.
func stripeStub(t *testing.T, session map[string]interface{}) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(session)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("STRIPE_API_BASE_URL", srv.URL)
}

func paidSession(user *models.User, intent string) map[string]interface{} {
	return map[string]interface{}{
		"id":             "cs_test_flow",
		"payment_status": "paid",
		"payment_intent": intent,
		"amount_total":   42000,
		"metadata": map[string]string{
			"user_id":           user.ID.String(),
			"user_email":        user.Email,
			"package_name":      "Package A",
			"number_of_lessons": "4",
			"validity_days":     "365",
		},
	}
}

func TestReconcilePaymentGrantsPackageOnce(t *testing.T) {
	setupFlowDB(t)
	user := seedFlowUser(t)
	stripeStub(t, paidSession(user, "pi_flow_1"))

	first, err := ReconcilePayment("cs_test_flow")
	require.NoError(t, err)
	assert.Equal(t, "Package A", first.PackageName)
	assert.Equal(t, 4, first.Lessons)
	assert.Equal(t, 420.0, first.Amount)
	assert.Equal(t, "pi_flow_1", first.TransactionID)
	assert.Equal(t, 4, first.UserPackage.LessonsRemaining)

	// Confirming the same session again must hand back the same grant,
	// never a second one.
	second, err := ReconcilePayment("cs_test_flow")
	require.NoError(t, err)
	assert.Equal(t, first.UserPackageID, second.UserPackageID)

	var count int64
	database.DB.Model(&models.UserPackage{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReconcilePaymentDedupesOnPaymentIntent(t *testing.T) {
	setupFlowDB(t)
	user := seedFlowUser(t)
	stripeStub(t, paidSession(user, "pi_flow_2"))

	// A grant for this intent already exists, written by a confirm this
	// call never saw. It must be surfaced, not duplicated.
	intent := "pi_flow_2"
	existing := models.UserPackage{
		ID:               uuid.New(),
		UserID:           user.ID,
		PackageName:      "Package A",
		TotalLessons:     4,
		LessonsRemaining: 4,
		PurchaseDate:     time.Now(),
		ExpiryDate:       time.Now().AddDate(0, 0, 365),
		PaymentIntentID:  &intent,
		PurchasePrice:    420,
	}
	require.NoError(t, database.DB.Create(&existing).Error)

	result, err := ReconcilePayment("cs_test_flow")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, result.UserPackageID)

	var count int64
	database.DB.Model(&models.UserPackage{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReconcilePaymentRejectsUnpaidSession(t *testing.T) {
	setupFlowDB(t)
	user := seedFlowUser(t)
	session := paidSession(user, "pi_flow_3")
	session["payment_status"] = "unpaid"
	stripeStub(t, session)

	_, err := ReconcilePayment("cs_test_flow")
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)

	var count int64
	database.DB.Model(&models.UserPackage{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReconcilePaymentRequiresPaymentIntent(t *testing.T) {
	setupFlowDB(t)
	user := seedFlowUser(t)
	stripeStub(t, paidSession(user, ""))

	_, err := ReconcilePayment("cs_test_flow")
	assert.ErrorIs(t, err, ErrInvalidSessionMetadata)

	var count int64
	database.DB.Model(&models.UserPackage{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReconcilePaymentRejectsEmailMismatch(t *testing.T) {
	setupFlowDB(t)
	user := seedFlowUser(t)
	session := paidSession(user, "pi_flow_4")
	session["metadata"].(map[string]string)["user_email"] = "someone-else@example.com"
	stripeStub(t, session)

	_, err := ReconcilePayment("cs_test_flow")
	assert.ErrorIs(t, err, ErrUserMismatch)
}
