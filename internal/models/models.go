package models

// APIResponse is the envelope every handler writes.
// Status is "success" or "failed".
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleCoach Role = "COACH"
	RoleAdmin Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCoach, RoleAdmin:
		return true
	default:
		return false
	}
}

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
)

// CourseStatus is derived from the schedule and never stored.
type CourseStatus string

const (
	CourseOpenForRegistration CourseStatus = "OPEN_FOR_REGISTRATION"
	CourseNotYetOpen          CourseStatus = "NOT_YET_OPEN"
	CourseInProgress          CourseStatus = "IN_PROGRESS"
	CourseCompleted           CourseStatus = "COMPLETED"
)

// BookingProgress is the learner-facing state shown on GET /users/courses.
type BookingProgress string

const (
	BookingPending    BookingProgress = "PENDING"
	BookingInProgress BookingProgress = "PROGRESS"
	BookingCompleted  BookingProgress = "COMPLETED"
)
