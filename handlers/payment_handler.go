package handlers

import (
	"errors"
	"log"
	"math"
	"strconv"

	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"github.com/truthdriving/driving_school/notifications"
	"github.com/truthdriving/driving_school/payments"
	"github.com/truthdriving/driving_school/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type CreateCheckoutSessionRequest struct {
	PackageID   uint   `json:"package_id,omitempty"`
	PackageName string `json:"package_name" validate:"required"`
}

// CreateCheckoutSession opens a hosted payment page for one catalog
// package. The user identity and the package terms are snapshotted into
// the session metadata so reconciliation later works from provider-side
// facts only.
func CreateCheckoutSession(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var pkg models.Package
	err := database.DB.First(&pkg, "id = ?", req.PackageID).Error
	if err != nil {
		err = database.DB.First(&pkg, "name = ?", req.PackageName).Error
	}
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Package not found",
			"code":  CodePackageNotFound,
		})
	}

	amountCents := int64(math.Round(pkg.Price * 100))

	session, err := payments.CreateCheckoutSession(payments.CheckoutParams{
		PackageName:        pkg.Name,
		PackageDescription: pkg.Description,
		AmountCents:        amountCents,
		Metadata: map[string]string{
			"user_id":           user.ID.String(),
			"user_email":        user.Email,
			"package_id":        strconv.FormatUint(uint64(pkg.ID), 10),
			"package_name":      pkg.Name,
			"number_of_lessons": strconv.Itoa(pkg.NumberOfLessons),
			"validity_days":     strconv.Itoa(pkg.ValidityDays),
		},
	})
	if err != nil {
		log.Printf("🔥 Stripe checkout session creation failed: %v", err)
		if errors.Is(err, payments.ErrProviderUnavailable) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Payment provider is unavailable, please try again.",
				"code":  CodeProviderUnavailable,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create checkout session"})
	}

	return c.JSON(fiber.Map{
		"url":        session.URL,
		"session_id": session.ID,
	})
}

// CheckPaymentStatus is a read-only passthrough to the provider, safe to
// poll while the client decides whether to confirm.
func CheckPaymentStatus(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	session, err := payments.RetrieveCheckoutSession(sessionID)
	if err != nil {
		if errors.Is(err, payments.ErrProviderUnavailable) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Payment provider is unavailable, please try again.",
				"code":  CodeProviderUnavailable,
			})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Checkout session not found"})
	}

	return c.JSON(fiber.Map{
		"status": session.PaymentStatus,
		"paid":   session.IsPaid(),
	})
}

type ConfirmPaymentRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// ConfirmPayment reconciles a completed checkout session into a lesson
// package grant. Safe to call twice for the same session: the second call
// returns the existing grant.
func ConfirmPayment(c *fiber.Ctx) error {
	var req ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.ReconcilePayment(req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrProviderUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Payment provider is unavailable, please try again.",
				"code":  CodeProviderUnavailable,
			})
		case errors.Is(err, services.ErrPaymentNotCompleted):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Payment not completed or session not found",
				"code":  CodePaymentNotCompleted,
			})
		case errors.Is(err, services.ErrInvalidSessionMetadata):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session metadata"})
		case errors.Is(err, services.ErrUserMismatch):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "User verification failed",
				"code":  CodeUserMismatch,
			})
		case errors.Is(err, services.ErrPackageNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Package not found",
				"code":  CodePackageNotFound,
			})
		default:
			log.Printf("🔥 Payment confirmation failed for session %s: %v", req.SessionID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to confirm payment"})
		}
	}

	return c.JSON(result)
}

type SendReceiptRequest struct {
	PackageName string  `json:"package_name" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Lessons     int     `json:"lessons" validate:"required,gt=0"`
}

func SendReceipt(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req SendReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	go notifications.SendPaymentReceipt(&user, req.PackageName, req.Lessons, req.Amount, "")

	return c.JSON(fiber.Map{"message": "Receipt sent successfully"})
}
