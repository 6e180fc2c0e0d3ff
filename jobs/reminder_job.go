package jobs

import (
	"log"
	"time"

	"github.com/truthdriving/driving_school/database"
	"github.com/truthdriving/driving_school/models"
	"github.com/truthdriving/driving_school/notifications"
	"github.com/truthdriving/driving_school/schedule"
)

// SendLessonReminders mails students whose verified lesson starts within
// the next hour. The job runs every 15 minutes, so the window is kept
// slightly narrower than two runs to avoid duplicate reminders.
func SendLessonReminders() {
	now := time.Now()
	today := now.Format("2006-01-02")

	var upcoming []models.Booking
	err := database.DB.
		Preload("User").
		Where("date = ? AND status = ? AND is_verified = ?", today, models.BookingStatusScheduled, true).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error checking for upcoming lessons: %v", err)
		return
	}

	nowMins := now.Hour()*60 + now.Minute()
	for _, booking := range upcoming {
		startMins, err := schedule.ToMinutes(booking.Time)
		if err != nil {
			continue
		}
		if startMins-nowMins < 46 || startMins-nowMins > 60 {
			continue
		}

		log.Printf("Sending reminder for booking ID: %s", booking.ID)
		go notifications.SendLessonReminder(&booking.User, &booking)
	}
}
