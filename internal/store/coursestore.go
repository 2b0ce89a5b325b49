package store

import (
	"context"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/models"
)

func (s *Store) CreateCourse(ctx context.Context, c *models.Course) error {
	return s.DB.WithContext(ctx).Create(c).Error
}

func (s *Store) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	if err := s.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCourseFields only touches the course when it belongs to ownerID.
func (s *Store) UpdateCourseFields(ctx context.Context, id, ownerID string, fields map[string]interface{}) (int64, error) {
	fields["updated_at"] = time.Now()
	res := s.DB.WithContext(ctx).Model(&models.Course{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// CourseListRow is the public listing shape.
type CourseListRow struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	MaxParticipants int       `json:"max_participants"`
	CoachName       string    `json:"coach_name"`
	SkillName       string    `json:"skill_name"`
}

func (s *Store) ListCourses(ctx context.Context) ([]CourseListRow, error) {
	var out []CourseListRow
	err := s.DB.WithContext(ctx).
		Table("courses AS c").
		Select(`c.id, c.name, c.description, c.start_at, c.end_at, c.max_participants,
			COALESCE(u.name, '') AS coach_name, COALESCE(sk.name, '') AS skill_name`).
		Joins("LEFT JOIN users u ON u.id = c.user_id").
		Joins("LEFT JOIN skills sk ON sk.id = c.skill_id").
		Order("c.start_at ASC").
		Scan(&out).Error
	return out, err
}

// OwnCourseRow is a coach's course with its active participant count.
type OwnCourseRow struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	MaxParticipants int       `json:"max_participants"`
	Participants    int64     `json:"participants"`
}

func (s *Store) ListCoachOwnCourses(ctx context.Context, coachUserID string) ([]OwnCourseRow, error) {
	var out []OwnCourseRow
	err := s.DB.WithContext(ctx).
		Table("courses AS c").
		Select(`c.id, c.name, c.start_at, c.end_at, c.max_participants,
			COUNT(cb.id) FILTER (WHERE cb.status = ?) AS participants`, models.BookingActive).
		Joins("LEFT JOIN course_bookings cb ON cb.course_id = c.id").
		Where("c.user_id = ?", coachUserID).
		Group("c.id").
		Order("c.start_at ASC").
		Scan(&out).Error
	return out, err
}

// CourseDetailRow is the coach-facing detail of one owned course.
type CourseDetailRow struct {
	ID              string    `json:"id"`
	SkillName       string    `json:"skill_name"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	MaxParticipants int       `json:"max_participants"`
	MeetingURL      string    `json:"meeting_url"`
}

func (s *Store) GetCoachOwnCourse(ctx context.Context, coachUserID, courseID string) (*CourseDetailRow, error) {
	var out []CourseDetailRow
	err := s.DB.WithContext(ctx).
		Table("courses AS c").
		Select(`c.id, COALESCE(sk.name, '') AS skill_name, c.name, c.description,
			c.start_at, c.end_at, c.max_participants, c.meeting_url`).
		Joins("LEFT JOIN skills sk ON sk.id = c.skill_id").
		Where("c.user_id = ? AND c.id = ?", coachUserID, courseID).
		Limit(1).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// CoachCourseRow is the public listing of one coach's courses.
type CoachCourseRow struct {
	ID              string    `json:"id"`
	CoachName       string    `json:"coach_name"`
	SkillName       string    `json:"skill_name"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	MaxParticipants int       `json:"max_participants"`
}

func (s *Store) ListCoursesByCoachID(ctx context.Context, coachID string) ([]CoachCourseRow, error) {
	var out []CoachCourseRow
	err := s.DB.WithContext(ctx).
		Table("courses AS c").
		Select(`c.id, u.name AS coach_name, COALESCE(sk.name, '') AS skill_name, c.name,
			c.description, c.start_at, c.end_at, c.max_participants`).
		Joins("JOIN users u ON u.id = c.user_id").
		Joins("JOIN coaches co ON co.user_id = u.id").
		Joins("LEFT JOIN skills sk ON sk.id = c.skill_id").
		Where("co.id = ?", coachID).
		Order("c.start_at ASC").
		Scan(&out).Error
	return out, err
}

// CountCoachBookingsInMonth returns the distinct courses of the coach with at
// least one active booking created in month, and the number of those bookings.
// The month is matched regardless of year.
func (s *Store) CountCoachBookingsInMonth(ctx context.Context, coachUserID string, month int) (int64, int64, error) {
	var row struct {
		CourseCount  int64
		Participants int64
	}
	err := s.DB.WithContext(ctx).
		Table("course_bookings AS cb").
		Select("COUNT(DISTINCT c.id) AS course_count, COUNT(cb.id) AS participants").
		Joins("JOIN courses c ON c.id = cb.course_id").
		Where("c.user_id = ? AND cb.status = ?", coachUserID, models.BookingActive).
		Where("EXTRACT(MONTH FROM cb.created_at) = ?", month).
		Scan(&row).Error
	return row.CourseCount, row.Participants, err
}
