package store

import (
	"context"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingTx is the read/write set of a registration, bound to one transaction.
type BookingTx interface {
	LockUser(ctx context.Context, userID string) error
	GetCourseForUpdate(ctx context.Context, courseID string) (*models.Course, error)
	HasActiveBooking(ctx context.Context, userID, courseID string) (bool, error)
	SumPurchasedCredits(ctx context.Context, userID string) (int64, error)
	CountActiveBookingsByUser(ctx context.Context, userID string) (int64, error)
	CountActiveBookingsByCourse(ctx context.Context, courseID string) (int64, error)
	CreateBooking(ctx context.Context, b *models.CourseBooking) error
}

type bookingTx struct {
	db *gorm.DB
}

// WithBookingTx runs fn inside a single database transaction.
func (s *Store) WithBookingTx(ctx context.Context, fn func(tx BookingTx) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&bookingTx{db: tx})
	})
}

// LockUser serialises concurrent registrations of the same user, which keeps
// the credit check and the insert consistent.
func (t *bookingTx) LockUser(ctx context.Context, userID string) error {
	var u models.User
	return t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&u, "id = ?", userID).Error
}

// GetCourseForUpdate locks the course row so capacity checks are serialised per course.
func (t *bookingTx) GetCourseForUpdate(ctx context.Context, courseID string) (*models.Course, error) {
	var c models.Course
	if err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", courseID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *bookingTx) HasActiveBooking(ctx context.Context, userID, courseID string) (bool, error) {
	return hasActiveBooking(ctx, t.db, userID, courseID)
}

func (t *bookingTx) SumPurchasedCredits(ctx context.Context, userID string) (int64, error) {
	return sumPurchasedCredits(ctx, t.db, userID)
}

func (t *bookingTx) CountActiveBookingsByUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := t.db.WithContext(ctx).Model(&models.CourseBooking{}).
		Where("user_id = ? AND status = ?", userID, models.BookingActive).
		Count(&cnt).Error
	return cnt, err
}

func (t *bookingTx) CountActiveBookingsByCourse(ctx context.Context, courseID string) (int64, error) {
	var cnt int64
	err := t.db.WithContext(ctx).Model(&models.CourseBooking{}).
		Where("course_id = ? AND status = ?", courseID, models.BookingActive).
		Count(&cnt).Error
	return cnt, err
}

func (t *bookingTx) CreateBooking(ctx context.Context, b *models.CourseBooking) error {
	return t.db.WithContext(ctx).Create(b).Error
}

func (s *Store) HasActiveBooking(ctx context.Context, userID, courseID string) (bool, error) {
	return hasActiveBooking(ctx, s.DB, userID, courseID)
}

// CancelActiveBooking flips the active booking to cancelled and reports how
// many rows changed; zero means another request got there first.
func (s *Store) CancelActiveBooking(ctx context.Context, userID, courseID string, at time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.CourseBooking{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.BookingActive).
		Updates(map[string]interface{}{"status": models.BookingCancelled, "cancelled_at": at})
	return res.RowsAffected, res.Error
}

// BookedCourseRow is one active booking joined with its course and coach.
type BookedCourseRow struct {
	Name       string    `json:"name"`
	CourseID   string    `json:"course_id"`
	CoachName  string    `json:"coach_name"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	MeetingURL string    `json:"meeting_url"`
}

func (s *Store) ListActiveBookedCourses(ctx context.Context, userID string) ([]BookedCourseRow, error) {
	var out []BookedCourseRow
	err := s.DB.WithContext(ctx).
		Table("course_bookings AS cb").
		Select(`c.name AS name, cb.course_id AS course_id, u.name AS coach_name,
			c.start_at AS start_at, c.end_at AS end_at, c.meeting_url AS meeting_url`).
		Joins("JOIN courses c ON c.id = cb.course_id").
		Joins("LEFT JOIN users u ON u.id = c.user_id").
		Where("cb.user_id = ? AND cb.status = ?", userID, models.BookingActive).
		Order("c.start_at ASC").
		Scan(&out).Error
	return out, err
}

func hasActiveBooking(ctx context.Context, db *gorm.DB, userID, courseID string) (bool, error) {
	var cnt int64
	err := db.WithContext(ctx).Model(&models.CourseBooking{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.BookingActive).
		Count(&cnt).Error
	return cnt > 0, err
}

func sumPurchasedCredits(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&models.CreditPurchase{}).
		Select("COALESCE(SUM(purchased_credits), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}
