package handlers

import (
	"errors"
	"time"

	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"github.com/truthdriving/driving_school/notifications"
	"github.com/truthdriving/driving_school/schedule"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	errSlotTaken      = errors.New("this time slot is already booked")
	errQuotaExhausted = errors.New("no lessons remaining in this package")
)

type CreateBookingRequest struct {
	Date            string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string  `json:"time" validate:"required,datetime=15:04"`
	DurationMinutes int     `json:"duration_minutes" validate:"omitempty,oneof=60 90"`
	InstructorName  string  `json:"instructor_name,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	UserPackageID   *string `json:"user_package_id,omitempty" validate:"omitempty,uuid"`
}

// slotTaken is the write-path conflict rule: strict (date, time) equality
// against non-cancelled bookings. Duration overlap is intentionally not
// considered here, only in the advisory availability display.
func slotTaken(tx *gorm.DB, date, timeOfDay string, excludeID *uuid.UUID) (bool, error) {
	query := tx.Model(&models.Booking{}).
		Where("date = ? AND time = ? AND status <> ?", date, timeOfDay, models.BookingStatusCancelled)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func CreateBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = 60
	}
	instructor := req.InstructorName
	if instructor == "" {
		instructor = "Instructor"
	}

	taken, err := slotTaken(database.DB, req.Date, req.Time, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check slot availability"})
	}
	if taken {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This time slot is already booked. Please choose a different time.",
			"code":  CodeSlotConflict,
		})
	}

	var userPackage *models.UserPackage
	if req.UserPackageID != nil {
		packageID, err := uuid.Parse(*req.UserPackageID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid package ID format"})
		}

		var pkg models.UserPackage
		if err := database.DB.First(&pkg, "id = ? AND user_id = ?", packageID, userID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Package not found or not available",
				"code":  CodePackageNotFound,
			})
		}
		if !pkg.HasRemainingLessons() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No lessons remaining in this package",
				"code":  CodeQuotaExhausted,
			})
		}
		if pkg.IsExpired() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "This package has expired",
				"code":  CodePackageExpired,
			})
		}
		userPackage = &pkg
	}

	booking := models.Booking{
		UserID:          userID,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: duration,
		InstructorName:  instructor,
		Notes:           req.Notes,
		Status:          models.BookingStatusScheduled,
	}
	if userPackage != nil {
		booking.UserPackageID = &userPackage.ID
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if userPackage != nil {
			// Conditional decrement keeps consumption atomic: two
			// concurrent bookings can never both get past remaining = 1.
			result := tx.Model(&models.UserPackage{}).
				Where("id = ? AND lessons_remaining > 0", userPackage.ID).
				Updates(map[string]interface{}{
					"lessons_used":      gorm.Expr("lessons_used + 1"),
					"lessons_remaining": gorm.Expr("lessons_remaining - 1"),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errQuotaExhausted
			}
		}

		if err := tx.Create(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errSlotTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errSlotTaken):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "This time slot is already booked. Please choose a different time.",
				"code":  CodeSlotConflict,
			})
		case errors.Is(err, errQuotaExhausted):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No lessons remaining in this package",
				"code":  CodeQuotaExhausted,
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
		}
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
		go notifications.SendBookingConfirmation(&user, &booking)
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

func GetMyBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var bookings []models.Booking
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("date desc, time desc").
		Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}

	return c.JSON(bookings)
}

// GetAvailableSlots lists the advisory open start times for a date. A slot
// counts as occupied when a verified booking's interval would overlap the
// requested lesson duration.
func GetAvailableSlots(c *fiber.Ctx) error {
	dateStr := c.Query("date")
	if dateStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date query parameter is required"})
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format, expected YYYY-MM-DD"})
	}

	duration := c.QueryInt("duration", 60)
	if duration != 60 && duration != 90 {
		duration = 60
	}

	var verified []models.Booking
	if err := database.DB.
		Where("date = ? AND status <> ? AND is_verified = ?", dateStr, models.BookingStatusCancelled, true).
		Find(&verified).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}

	booked := make([]schedule.BookedSlot, 0, len(verified))
	for _, b := range verified {
		booked = append(booked, schedule.BookedSlot{Time: b.Time, DurationMinutes: b.DurationMinutes})
	}

	slots := schedule.SlotsForDate(date, schedule.HoursFromConfig())
	return c.JSON(fiber.Map{
		"date":            dateStr,
		"available_slots": schedule.FilterAvailable(slots, duration, booked),
	})
}

type UpdateBookingRequest struct {
	Date            string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time            string `json:"time" validate:"omitempty,datetime=15:04"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,oneof=60 90"`
	InstructorName  string `json:"instructor_name,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

func UpdateBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	bookingID := c.Params("id")

	var req UpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ? AND user_id = ?", bookingID, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.IsCancelled() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot edit a cancelled booking"})
	}

	newDate := booking.Date
	newTime := booking.Time
	if req.Date != "" {
		newDate = req.Date
	}
	if req.Time != "" {
		newTime = req.Time
	}

	if newDate != booking.Date || newTime != booking.Time {
		taken, err := slotTaken(database.DB, newDate, newTime, &booking.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check slot availability"})
		}
		if taken {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "This time slot is already booked. Please choose a different time.",
				"code":  CodeSlotConflict,
			})
		}
	}

	booking.Date = newDate
	booking.Time = newTime
	if req.DurationMinutes != 0 {
		booking.DurationMinutes = req.DurationMinutes
	}
	if req.InstructorName != "" {
		booking.InstructorName = req.InstructorName
	}
	if req.Notes != "" {
		booking.Notes = req.Notes
	}

	if err := database.DB.Save(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "This time slot is already booked. Please choose a different time.",
				"code":  CodeSlotConflict,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update booking"})
	}

	return c.JSON(booking)
}

func CancelBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	bookingID := c.Params("id")

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ? AND user_id = ?", bookingID, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.IsCancelled() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Booking is already cancelled"})
	}

	// Cancellation does not refund a consumed package lesson.
	booking.Status = models.BookingStatusCancelled
	if err := database.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel booking"})
	}

	return c.JSON(booking)
}

func DeleteBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	bookingID := c.Params("id")

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ? AND user_id = ?", bookingID, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	if err := database.DB.Delete(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete booking"})
	}

	return c.JSON(fiber.Map{"message": "Booking deleted successfully"})
}
