package service

import (
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/models"
)

const (
	// Course times are displayed for UTC+8; "now" is shifted by this much
	// before it is compared with the stored schedule.
	displayOffset = 8 * time.Hour
	// Registration is shown as open until this long before the start.
	registrationWindow = 10 * 24 * time.Hour
)

// ResolveCourseStatus partitions the timeline around a course:
// [.., start-10d) open, [start-10d, start) not yet open,
// [start, end] in progress, (end, ..) completed.
func ResolveCourseStatus(now, startAt, endAt time.Time) models.CourseStatus {
	shifted := now.Add(displayOffset)
	switch {
	case shifted.Before(startAt.Add(-registrationWindow)):
		return models.CourseOpenForRegistration
	case shifted.Before(startAt):
		return models.CourseNotYetOpen
	case !shifted.After(endAt):
		return models.CourseInProgress
	default:
		return models.CourseCompleted
	}
}

// ResolveBookingProgress is the learner-facing state of a booked course.
func ResolveBookingProgress(now, startAt, endAt time.Time) models.BookingProgress {
	switch {
	case startAt.After(now):
		return models.BookingPending
	case !endAt.Before(now):
		return models.BookingInProgress
	default:
		return models.BookingCompleted
	}
}
