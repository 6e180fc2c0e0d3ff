package notifications

import (
	"fmt"

	"github.com/truthdriving/driving_school/models"
)

func durationLabel(minutes int) string {
	if minutes == 90 {
		return "1.5 hours"
	}
	return "1 hour"
}

// SendBookingConfirmation mails the student after a booking is created.
func SendBookingConfirmation(user *models.User, booking *models.Booking) {
	subject := "Booking Received - Driving Lesson"
	html := fmt.Sprintf(
		"<h1>Booking Received</h1>"+
			"<p>Hi %s,</p>"+
			"<p>We have received your driving lesson booking for <b>%s at %s</b> (%s). "+
			"An instructor will verify it shortly and you will get a confirmation email.</p>",
		user.FirstName, booking.Date, booking.Time, durationLabel(booking.DurationMinutes),
	)
	SendEmail(user.FullName(), user.Email, subject, html)
}

// SendBookingVerified mails the student when an admin verifies a booking.
func SendBookingVerified(user *models.User, booking *models.Booking) {
	subject := "Your Driving Lesson is Confirmed!"
	html := fmt.Sprintf(
		"<h1>Lesson Confirmed</h1>"+
			"<p>Hi %s,</p>"+
			"<p>Your driving lesson on <b>%s at %s</b> (%s) has been confirmed. "+
			"Please be ready 10 minutes before your lesson starts.</p>",
		user.FirstName, booking.Date, booking.Time, durationLabel(booking.DurationMinutes),
	)
	SendEmail(user.FullName(), user.Email, subject, html)
}

// SendBookingRejected mails the student when an admin rejects a booking.
func SendBookingRejected(user *models.User, booking *models.Booking) {
	reason := "No reason provided"
	if booking.RejectionReason != nil && *booking.RejectionReason != "" {
		reason = *booking.RejectionReason
	}
	subject := "Your Driving Lesson Booking Could Not Be Accepted"
	html := fmt.Sprintf(
		"<h1>Booking Not Accepted</h1>"+
			"<p>Hi %s,</p>"+
			"<p>Unfortunately your booking for <b>%s at %s</b> could not be accepted.</p>"+
			"<p><b>Reason:</b> %s</p>"+
			"<p>Please book a different time slot from your dashboard.</p>",
		user.FirstName, booking.Date, booking.Time, reason,
	)
	SendEmail(user.FullName(), user.Email, subject, html)
}

// SendPaymentReceipt mails the student a receipt after a package purchase
// is reconciled.
func SendPaymentReceipt(user *models.User, packageName string, lessons int, amount float64, transactionID string) {
	subject := "Payment Receipt - " + packageName
	html := fmt.Sprintf(
		"<h1>Thank You for Your Purchase!</h1>"+
			"<p>Hi %s,</p>"+
			"<p>Your payment has been received.</p>"+
			"<ul>"+
			"<li><b>Package:</b> %s</li>"+
			"<li><b>Lessons:</b> %d</li>"+
			"<li><b>Amount:</b> $%.2f CAD</li>"+
			"<li><b>Transaction ID:</b> %s</li>"+
			"</ul>"+
			"<p>You can now book lessons against this package from your dashboard.</p>",
		user.FirstName, packageName, lessons, amount, transactionID,
	)
	SendEmail(user.FullName(), user.Email, subject, html)
}

// SendContactReply mails an admin's answer back to a contact-form
// enquirer, quoting the original message.
func SendContactReply(msg *models.ContactMessage, reply string) {
	subject := "Re: " + msg.Subject
	if msg.Subject == "" {
		subject = "Re: Your enquiry to Truth Driving School"
	}
	html := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>%s</p>"+
			"<hr>"+
			"<p><i>Your original message:</i></p>"+
			"<blockquote>%s</blockquote>",
		msg.Name, reply, msg.Message,
	)
	SendEmail(msg.Name, msg.Email, subject, html)
}

// SendLessonReminder mails the student ahead of a verified lesson.
func SendLessonReminder(user *models.User, booking *models.Booking) {
	subject := "Reminder: Your Driving Lesson Starts Soon!"
	html := fmt.Sprintf(
		"<h1>Lesson Reminder</h1>"+
			"<p>Hi %s,</p>"+
			"<p>This is a friendly reminder that your driving lesson starts today at <b>%s</b> (%s).</p>",
		user.FirstName, booking.Time, durationLabel(booking.DurationMinutes),
	)
	SendEmail(user.FullName(), user.Email, subject, html)
}
