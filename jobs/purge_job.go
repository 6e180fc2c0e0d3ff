package jobs

import (
	"log"
	"time"

	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
)

// PurgePastBookings deletes bookings whose lesson date has passed. It runs
// on a schedule instead of piggybacking on list requests, so reads stay
// read-only; listing endpoints see the same net effect.
func PurgePastBookings() {
	today := time.Now().Format("2006-01-02")

	result := database.DB.Where("date < ?", today).Delete(&models.Booking{})
	if result.Error != nil {
		log.Printf("Error auto-deleting past bookings: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("🗑️ Auto-deleted %d past booking(s)", result.RowsAffected)
	}
}
