package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCancelled(t *testing.T) {
	b := Booking{Status: BookingStatusScheduled}
	assert.False(t, b.IsCancelled())

	b.Status = BookingStatusCancelled
	assert.True(t, b.IsCancelled())
}

func TestCanBeVerified(t *testing.T) {
	b := Booking{Status: BookingStatusScheduled, IsVerified: false}
	assert.True(t, b.CanBeVerified())

	b.IsVerified = true
	assert.False(t, b.CanBeVerified(), "already verified bookings cannot be verified again")

	b = Booking{Status: BookingStatusCancelled, IsVerified: false}
	assert.False(t, b.CanBeVerified(), "cancelled bookings cannot be verified")
}

func TestCanBeRejected(t *testing.T) {
	b := Booking{Status: BookingStatusScheduled, IsVerified: false}
	assert.True(t, b.CanBeRejected())

	b.IsVerified = true
	assert.False(t, b.CanBeRejected(), "verified bookings cannot be rejected")

	b = Booking{Status: BookingStatusCancelled}
	assert.False(t, b.CanBeRejected())
}
