package services

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"github.com/truthdriving/driving_school/notifications"
	"github.com/truthdriving/driving_school/payments"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotCompleted    = errors.New("payment not completed or session not found")
	ErrInvalidSessionMetadata = errors.New("invalid session metadata")
	ErrUserMismatch           = errors.New("user verification failed")
	ErrPackageNotFound        = errors.New("package not found")
)

// packageTerms is what a grant is stamped from: the catalog identity plus
// lesson count and validity at time of purchase.
type packageTerms struct {
	PackageID    uint
	Name         string
	Lessons      int
	ValidityDays int
}

// fallbackPackageTerms is the last-resort name lookup, used only when the
// catalog entry was deleted after checkout was created and the session
// metadata carries no term snapshot (sessions from older clients).
var fallbackPackageTerms = map[string]packageTerms{
	"1 Hour Driving Lesson":     {Lessons: 1, ValidityDays: 365},
	"1.5 Hours Driving Lessons": {Lessons: 1, ValidityDays: 365},
	"Package A":                 {Lessons: 4, ValidityDays: 365},
	"Package B":                 {Lessons: 6, ValidityDays: 365},
	"Package C":                 {Lessons: 10, ValidityDays: 365},
	"Road Test":                 {Lessons: 1, ValidityDays: 365},
}

// termsFromMetadata recovers the term snapshot written into the session
// metadata at checkout-creation time.
func termsFromMetadata(metadata map[string]string) (packageTerms, bool) {
	lessons, err := strconv.Atoi(metadata["number_of_lessons"])
	if err != nil || lessons <= 0 {
		return packageTerms{}, false
	}
	validityDays, err := strconv.Atoi(metadata["validity_days"])
	if err != nil || validityDays <= 0 {
		return packageTerms{}, false
	}

	terms := packageTerms{
		Name:         metadata["package_name"],
		Lessons:      lessons,
		ValidityDays: validityDays,
	}
	if id, err := strconv.ParseUint(metadata["package_id"], 10, 32); err == nil {
		terms.PackageID = uint(id)
	}
	return terms, true
}

// resolvePackageTerms prefers the live catalog, then the metadata
// snapshot, then the static fallback table.
func resolvePackageTerms(metadata map[string]string) (packageTerms, error) {
	packageName := metadata["package_name"]

	var pkg models.Package
	if id, err := strconv.ParseUint(metadata["package_id"], 10, 32); err == nil && id > 0 {
		if err := database.DB.First(&pkg, "id = ?", uint(id)).Error; err == nil {
			return packageTerms{PackageID: pkg.ID, Name: pkg.Name, Lessons: pkg.NumberOfLessons, ValidityDays: pkg.ValidityDays}, nil
		}
	}
	if packageName != "" {
		if err := database.DB.First(&pkg, "name = ?", packageName).Error; err == nil {
			return packageTerms{PackageID: pkg.ID, Name: pkg.Name, Lessons: pkg.NumberOfLessons, ValidityDays: pkg.ValidityDays}, nil
		}
	}

	if terms, ok := termsFromMetadata(metadata); ok {
		return terms, nil
	}

	if terms, ok := fallbackPackageTerms[packageName]; ok {
		terms.Name = packageName
		return terms, nil
	}

	return packageTerms{}, ErrPackageNotFound
}

// ConfirmationResult is what a successful reconciliation reports back.
type ConfirmationResult struct {
	PackageName   string             `json:"package_name"`
	Amount        float64            `json:"amount"`
	Lessons       int                `json:"lessons"`
	UserPackageID uuid.UUID          `json:"user_package_id"`
	TransactionID string             `json:"transaction_id"`
	UserPackage   models.UserPackage `json:"user_package"`
}

func resultFromEntry(entry *models.UserPackage) *ConfirmationResult {
	transactionID := ""
	if entry.PaymentIntentID != nil {
		transactionID = *entry.PaymentIntentID
	}
	return &ConfirmationResult{
		PackageName:   entry.PackageName,
		Amount:        entry.PurchasePrice,
		Lessons:       entry.TotalLessons,
		UserPackageID: entry.ID,
		TransactionID: transactionID,
		UserPackage:   *entry,
	}
}

// ReconcilePayment turns one completed Stripe checkout session into
// exactly one user package grant. Reconciling the same session twice
// returns the existing grant instead of creating a second one; the unique
// payment_intent_id column backs that up under concurrent calls.
func ReconcilePayment(sessionID string) (*ConfirmationResult, error) {
	session, err := payments.RetrieveCheckoutSession(sessionID)
	if err != nil {
		if errors.Is(err, payments.ErrProviderUnavailable) {
			return nil, err
		}
		return nil, ErrPaymentNotCompleted
	}
	if !session.IsPaid() {
		return nil, ErrPaymentNotCompleted
	}

	// A paid session without a payment_intent has nothing to key the
	// grant on; refusing it keeps two such sessions from deduping
	// against each other through an empty key.
	if session.PaymentIntent == "" {
		return nil, ErrInvalidSessionMetadata
	}

	userIDRaw := session.Metadata["user_id"]
	userEmail := session.Metadata["user_email"]
	packageName := session.Metadata["package_name"]
	if userIDRaw == "" || userEmail == "" || packageName == "" {
		return nil, ErrInvalidSessionMetadata
	}
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		return nil, ErrInvalidSessionMetadata
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserMismatch
	}
	if user.Email != userEmail {
		return nil, ErrUserMismatch
	}

	// Already reconciled? Return the existing grant, never a duplicate.
	var existing models.UserPackage
	if err := database.DB.First(&existing, "payment_intent_id = ?", session.PaymentIntent).Error; err == nil {
		return resultFromEntry(&existing), nil
	}

	terms, err := resolvePackageTerms(session.Metadata)
	if err != nil {
		return nil, err
	}

	amount := float64(session.AmountTotal) / 100
	now := time.Now()
	paymentIntentID := session.PaymentIntent

	entry := models.UserPackage{
		UserID:           user.ID,
		PackageID:        terms.PackageID,
		PackageName:      terms.Name,
		TotalLessons:     terms.Lessons,
		LessonsUsed:      0,
		LessonsRemaining: terms.Lessons,
		PurchaseDate:     now,
		ExpiryDate:       now.AddDate(0, 0, terms.ValidityDays),
		PaymentIntentID:  &paymentIntentID,
		PurchasePrice:    amount,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent confirm won the race; hand back its grant.
			var winner models.UserPackage
			if err := database.DB.First(&winner, "payment_intent_id = ?", session.PaymentIntent).Error; err != nil {
				return nil, err
			}
			return resultFromEntry(&winner), nil
		}
		return nil, err
	}

	go notifications.SendPaymentReceipt(&user, entry.PackageName, entry.TotalLessons, amount, paymentIntentID)
	log.Printf("✅ Reconciled payment %s into user package %s", paymentIntentID, entry.ID)

	return resultFromEntry(&entry), nil
}
