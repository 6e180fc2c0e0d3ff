package handlers

import (
	"testing"

	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func adminPaymentApp(admin *models.User) *fiber.App {
	return testApp(admin, func(app *fiber.App) {
		app.Put("/admin/payments/:id/quota", AdminUpdateQuota)
	})
}

func TestAdminUpdateQuotaRecomputesRemainingInDatabase(t *testing.T) {
	setupTestDB(t)
	admin := createTestUser(t, "admin")
	student := createTestUser(t, "student")
	entry := createTestUserPackage(t, student.ID, 6, 2)

	// A lesson is consumed after the admin loaded the dashboard; the
	// correction must still land on consistent counters.
	require.NoError(t, database.DB.Model(&models.UserPackage{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"lessons_used":      gorm.Expr("lessons_used + 1"),
			"lessons_remaining": gorm.Expr("lessons_remaining - 1"),
		}).Error)

	resp, err := adminPaymentApp(admin).Test(jsonRequest(
		"PUT", "/admin/payments/"+entry.ID.String()+"/quota",
		fiber.Map{"lessons_used": 5},
	), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.UserPackage
	require.NoError(t, database.DB.First(&reloaded, "id = ?", entry.ID).Error)
	assert.Equal(t, 5, reloaded.LessonsUsed)
	assert.Equal(t, 1, reloaded.LessonsRemaining)
	assert.Equal(t, reloaded.TotalLessons, reloaded.LessonsUsed+reloaded.LessonsRemaining)
}

func TestAdminUpdateQuotaRejectsOutOfRange(t *testing.T) {
	setupTestDB(t)
	admin := createTestUser(t, "admin")
	student := createTestUser(t, "student")
	entry := createTestUserPackage(t, student.ID, 4, 1)
	app := adminPaymentApp(admin)

	for _, lessonsUsed := range []int{-1, 5} {
		resp, err := app.Test(jsonRequest(
			"PUT", "/admin/payments/"+entry.ID.String()+"/quota",
			fiber.Map{"lessons_used": lessonsUsed},
		), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, CodeInvalidQuota, decodeBody(t, resp)["code"])
	}

	var reloaded models.UserPackage
	require.NoError(t, database.DB.First(&reloaded, "id = ?", entry.ID).Error)
	assert.Equal(t, 1, reloaded.LessonsUsed)
	assert.Equal(t, 3, reloaded.LessonsRemaining)
}

func TestAdminUpdateQuotaUnknownEntry(t *testing.T) {
	setupTestDB(t)
	admin := createTestUser(t, "admin")

	resp, err := adminPaymentApp(admin).Test(jsonRequest(
		"PUT", "/admin/payments/"+uuid.NewString()+"/quota",
		fiber.Map{"lessons_used": 2},
	), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
