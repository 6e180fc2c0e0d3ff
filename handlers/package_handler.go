package handlers

import (
	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func ListPackages(c *fiber.Ctx) error {
	var packages []models.Package
	if err := database.DB.Order("is_popular desc, price asc").Find(&packages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch packages"})
	}
	return c.JSON(packages)
}

// GetMyPackages lists the caller's purchased packages that have not
// expired, most recent purchase first.
func GetMyPackages(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var userPackages []models.UserPackage
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("purchase_date desc").
		Find(&userPackages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user packages"})
	}

	active := make([]models.UserPackage, 0, len(userPackages))
	for _, pkg := range userPackages {
		if !pkg.IsExpired() {
			active = append(active, pkg)
		}
	}
	return c.JSON(active)
}

// GetPackagesAvailableForBooking lists the caller's packages that can
// still pay for a lesson: remaining lessons and not expired.
func GetPackagesAvailableForBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var userPackages []models.UserPackage
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("purchase_date desc").
		Find(&userPackages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user packages"})
	}

	bookable := make([]models.UserPackage, 0, len(userPackages))
	for _, pkg := range userPackages {
		if pkg.HasRemainingLessons() && !pkg.IsExpired() {
			bookable = append(bookable, pkg)
		}
	}
	return c.JSON(bookable)
}

type PackageRequest struct {
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description,omitempty"`
	NumberOfLessons int      `json:"number_of_lessons" validate:"required,gt=0"`
	Price           float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice   *float64 `json:"original_price,omitempty"`
	DurationHours   float64  `json:"duration_hours" validate:"required,gt=0"`
	ValidityDays    int      `json:"validity_days" validate:"required,gt=0"`
	PackageType     string   `json:"package_type" validate:"required,oneof=single package road_test"`
	IsPopular       bool     `json:"is_popular"`
	Features        []string `json:"features,omitempty"`
}

func AdminCreatePackage(c *fiber.Ctx) error {
	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pkg := models.Package{
		Name:            req.Name,
		Description:     req.Description,
		NumberOfLessons: req.NumberOfLessons,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		DurationHours:   req.DurationHours,
		ValidityDays:    req.ValidityDays,
		PackageType:     req.PackageType,
		IsPopular:       req.IsPopular,
		Features:        req.Features,
	}
	if err := database.DB.Create(&pkg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create package"})
	}
	return c.Status(fiber.StatusCreated).JSON(pkg)
}

func AdminUpdatePackage(c *fiber.Ctx) error {
	packageID := c.Params("id")

	var pkg models.Package
	if err := database.DB.First(&pkg, "id = ?", packageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Package not found"})
	}

	var req PackageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pkg.Name = req.Name
	pkg.Description = req.Description
	pkg.NumberOfLessons = req.NumberOfLessons
	pkg.Price = req.Price
	pkg.OriginalPrice = req.OriginalPrice
	pkg.DurationHours = req.DurationHours
	pkg.ValidityDays = req.ValidityDays
	pkg.PackageType = req.PackageType
	pkg.IsPopular = req.IsPopular
	pkg.Features = req.Features
	if err := database.DB.Save(&pkg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update package"})
	}

	return c.JSON(pkg)
}

// AdminDeletePackage removes a catalog entry. Existing user packages are
// untouched: they carry a frozen copy of the name and terms.
func AdminDeletePackage(c *fiber.Ctx) error {
	packageID := c.Params("id")

	var pkg models.Package
	if err := database.DB.First(&pkg, "id = ?", packageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Package not found"})
	}

	if err := database.DB.Delete(&pkg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete package"})
	}
	return c.JSON(fiber.Map{"message": "Package deleted successfully"})
}
