package handlers

import (
	"strings"

	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"github.com/truthdriving/driving_school/notifications"
	"github.com/gofiber/fiber/v2"
)

type ContactMessageRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=100"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone,omitempty"`
	Subject string  `json:"subject,omitempty" validate:"omitempty,max=200"`
	Message string  `json:"message" validate:"required"`
}

// SubmitContactMessage receives a public contact-form enquiry. No auth.
func SubmitContactMessage(c *fiber.Ctx) error {
	var req ContactMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	msg := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.ContactStatusNew,
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit contact message"})
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// AdminGetContactMessages lists enquiries, optionally filtered by status
// or a free-text query over name, email, subject and message.
func AdminGetContactMessages(c *fiber.Ctx) error {
	query := database.DB.Model(&models.ContactMessage{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if q := c.Query("q"); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"lower(name) LIKE ? OR lower(email) LIKE ? OR lower(subject) LIKE ? OR lower(message) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var messages []models.ContactMessage
	if err := query.Order("created_at desc").Find(&messages).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch contact messages"})
	}
	return c.JSON(messages)
}

type UpdateContactMessageRequest struct {
	Name    string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email   string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Subject string  `json:"subject,omitempty" validate:"omitempty,max=200"`
	Message string  `json:"message,omitempty"`
	Status  string  `json:"status,omitempty" validate:"omitempty,oneof=new in_progress resolved"`
}

func AdminUpdateContactMessage(c *fiber.Ctx) error {
	messageID := c.Params("id")

	var req UpdateContactMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var msg models.ContactMessage
	if err := database.DB.First(&msg, "id = ?", messageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contact message not found"})
	}

	if req.Name != "" {
		msg.Name = req.Name
	}
	if req.Email != "" {
		msg.Email = req.Email
	}
	if req.Phone != nil {
		msg.Phone = req.Phone
	}
	if req.Subject != "" {
		msg.Subject = req.Subject
	}
	if req.Message != "" {
		msg.Message = req.Message
	}
	if req.Status != "" {
		msg.Status = req.Status
	}

	if err := database.DB.Save(&msg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update contact message"})
	}
	return c.JSON(msg)
}

type ContactReplyRequest struct {
	ReplyMessage string `json:"reply_message" validate:"required"`
}

// AdminReplyContactMessage mails a reply to the enquirer and moves a new
// enquiry to in_progress.
func AdminReplyContactMessage(c *fiber.Ctx) error {
	messageID := c.Params("id")

	var req ContactReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var msg models.ContactMessage
	if err := database.DB.First(&msg, "id = ?", messageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contact message not found"})
	}

	go notifications.SendContactReply(&msg, req.ReplyMessage)

	if msg.Status == models.ContactStatusNew {
		msg.Status = models.ContactStatusInProgress
		if err := database.DB.Save(&msg).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update contact message"})
		}
	}

	return c.JSON(fiber.Map{"message": "Reply sent successfully"})
}

func AdminDeleteContactMessage(c *fiber.Ctx) error {
	messageID := c.Params("id")

	var msg models.ContactMessage
	if err := database.DB.First(&msg, "id = ?", messageID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Contact message not found"})
	}

	if err := database.DB.Delete(&msg).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete contact message"})
	}
	return c.JSON(fiber.Map{"message": "Contact message deleted successfully"})
}
