package handlers

import (
	"errors"

	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"github.com/truthdriving/driving_school/notifications"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func AdminGetBookings(c *fiber.Ctx) error {
	query := database.DB.Preload("User")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	var bookings []models.Booking
	if err := query.Order("date desc, time desc").Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}
	return c.JSON(bookings)
}

type AdminCreateBookingRequest struct {
	UserID          string `json:"user_id" validate:"required,uuid"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,oneof=60 90"`
	InstructorName  string `json:"instructor_name,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// AdminCreateBooking books a lesson on behalf of a student. No package is
// consumed on this path.
func AdminCreateBooking(c *fiber.Ctx) error {
	var req AdminCreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userID, _ := uuid.Parse(req.UserID)
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
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

	duration := 60
	if req.DurationMinutes == 90 {
		duration = 90
	}

	booking := models.Booking{
		UserID:          userID,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: duration,
		InstructorName:  req.InstructorName,
		Notes:           req.Notes,
		Status:          models.BookingStatusScheduled,
	}
	if err := database.DB.Create(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "This time slot is already booked. Please choose a different time.",
				"code":  CodeSlotConflict,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	go notifications.SendBookingConfirmation(&user, &booking)

	return c.Status(fiber.StatusCreated).JSON(booking)
}

type AdminUpdateBookingRequest struct {
	Date            string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time            string `json:"time" validate:"omitempty,datetime=15:04"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,oneof=60 90"`
	InstructorName  string `json:"instructor_name,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Status          string `json:"status" validate:"omitempty,oneof=scheduled cancelled"`
}

func AdminUpdateBooking(c *fiber.Ctx) error {
	bookingID := c.Params("id")

	var req AdminUpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	newDate := booking.Date
	newTime := booking.Time
	if req.Date != "" {
		newDate = req.Date
	}
	if req.Time != "" {
		newTime = req.Time
	}

	// Re-check the slot unless the edit itself cancels the booking.
	if (newDate != booking.Date || newTime != booking.Time) && req.Status != models.BookingStatusCancelled {
		taken, err := slotTaken(database.DB, newDate, newTime, &booking.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check slot availability"})
		}
		if taken {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "This time slot is already booked by another student. Please choose a different time.",
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
	if req.Status != "" {
		booking.Status = req.Status
		if booking.Status == models.BookingStatusCancelled {
			booking.IsVerified = false
		}
	}

	if err := database.DB.Save(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "This time slot is already booked by another student. Please choose a different time.",
				"code":  CodeSlotConflict,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update booking"})
	}

	return c.JSON(booking)
}

func AdminVerifyBooking(c *fiber.Ctx) error {
	bookingID := c.Params("id")

	var booking models.Booking
	if err := database.DB.Preload("User").First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.IsCancelled() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot verify a cancelled booking"})
	}
	if booking.IsVerified {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Booking is already verified"})
	}

	booking.IsVerified = true
	if err := database.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify booking"})
	}

	go notifications.SendBookingVerified(&booking.User, &booking)

	return c.JSON(booking)
}

type RejectBookingRequest struct {
	RejectionReason string `json:"rejection_reason,omitempty"`
}

func AdminRejectBooking(c *fiber.Ctx) error {
	bookingID := c.Params("id")

	var req RejectBookingRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var booking models.Booking
	if err := database.DB.Preload("User").First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if !booking.CanBeRejected() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only pending, unverified bookings can be rejected"})
	}

	reason := req.RejectionReason
	if reason == "" {
		reason = "No reason provided"
	}

	booking.Status = models.BookingStatusCancelled
	booking.IsVerified = false
	booking.RejectionReason = &reason
	if err := database.DB.Save(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reject booking"})
	}

	go notifications.SendBookingRejected(&booking.User, &booking)

	return c.JSON(booking)
}

func AdminDeleteBooking(c *fiber.Ctx) error {
	bookingID := c.Params("id")

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	if err := database.DB.Delete(&booking).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete booking"})
	}

	return c.JSON(fiber.Map{"message": "Booking deleted successfully"})
}
