package handlers

import (
	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type packageQuotaStat struct {
	PackageName    string `json:"package_name"`
	TotalPurchased int64  `json:"total_purchased"`
	TotalUsed      int64  `json:"total_used"`
	TotalLessons   int64  `json:"total_lessons"`
}

// AdminGetPayments lists every purchased package with its owner, plus
// aggregate quota usage per multi-lesson package.
func AdminGetPayments(c *fiber.Ctx) error {
	var userPackages []models.UserPackage
	if err := database.DB.
		Preload("User").
		Order("purchase_date desc").
		Find(&userPackages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}

	var quotaStats []packageQuotaStat
	if err := database.DB.Model(&models.UserPackage{}).
		Select("package_name, COUNT(id) as total_purchased, SUM(lessons_used) as total_used, SUM(total_lessons) as total_lessons").
		Where("package_name IN ?", []string{"Package A", "Package B", "Package C"}).
		Group("package_name").
		Scan(&quotaStats).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch quota stats"})
	}

	return c.JSON(fiber.Map{
		"payments":    userPackages,
		"quota_stats": quotaStats,
	})
}

type UpdateQuotaRequest struct {
	LessonsUsed *int `json:"lessons_used" validate:"required"`
}

// AdminUpdateQuota overwrites lessons_used on a user package and
// recomputes lessons_remaining, keeping the counters consistent.
func AdminUpdateQuota(c *fiber.Ctx) error {
	userPackageID := c.Params("id")

	var req UpdateQuotaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	lessonsUsed := *req.LessonsUsed
	if lessonsUsed < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lessons_used value",
			"code":  CodeInvalidQuota,
		})
	}

	// Single guarded statement; lessons_remaining is recomputed from
	// total_lessons inside the database, so a lesson consumed between
	// the admin's read and this write cannot be overwritten with stale
	// counters.
	result := database.DB.Model(&models.UserPackage{}).
		Where("id = ? AND total_lessons >= ?", userPackageID, lessonsUsed).
		Updates(map[string]interface{}{
			"lessons_used":      lessonsUsed,
			"lessons_remaining": gorm.Expr("total_lessons - ?", lessonsUsed),
		})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update quota"})
	}
	if result.RowsAffected == 0 {
		var userPackage models.UserPackage
		if err := database.DB.First(&userPackage, "id = ?", userPackageID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User package not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lessons_used value",
			"code":  CodeInvalidQuota,
		})
	}

	var userPackage models.UserPackage
	if err := database.DB.First(&userPackage, "id = ?", userPackageID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch updated quota"})
	}
	return c.JSON(userPackage)
}

func AdminDeleteUserPackage(c *fiber.Ctx) error {
	userPackageID := c.Params("id")

	var userPackage models.UserPackage
	if err := database.DB.First(&userPackage, "id = ?", userPackageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User package not found"})
	}

	if err := database.DB.Delete(&userPackage).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user package"})
	}

	return c.JSON(fiber.Map{"message": "User package deleted successfully"})
}
