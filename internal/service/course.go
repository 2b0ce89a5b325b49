package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/models"
	"github.com/madhava-poojari/coursebook-api/internal/store"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
	"github.com/madhava-poojari/coursebook-api/internal/validate"
)

// Accepted layouts for start_at / end_at. Values without a zone are UTC.
var courseTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// CourseInput is the raw create/update payload.
type CourseInput struct {
	SkillID         interface{} `json:"skill_id"`
	Name            interface{} `json:"name"`
	Description     interface{} `json:"description"`
	StartAt         interface{} `json:"start_at"`
	EndAt           interface{} `json:"end_at"`
	MaxParticipants interface{} `json:"max_participants"`
	MeetingURL      interface{} `json:"meeting_url"`
}

type courseFields struct {
	skillID         string
	name            string
	description     string
	startAt         time.Time
	endAt           time.Time
	maxParticipants int
	meetingURL      string
}

func (in CourseInput) parse() (*courseFields, error) {
	if validate.AnyUndefinedOrNotString(in.SkillID, in.Name, in.Description, in.StartAt, in.EndAt, in.MeetingURL) ||
		validate.IsNotValidUUID(in.SkillID) ||
		validate.IsUndefined(in.MaxParticipants) || validate.IsNotValidInteger(in.MaxParticipants) ||
		validate.AsInt(in.MaxParticipants) == 0 ||
		validate.IsNotSecureURL(in.MeetingURL) {
		return nil, apperr.ErrValidation
	}
	start, ok := parseCourseTime(validate.AsString(in.StartAt))
	if !ok {
		return nil, apperr.ErrValidation
	}
	end, ok := parseCourseTime(validate.AsString(in.EndAt))
	if !ok || !start.Before(end) {
		return nil, apperr.ErrValidation
	}
	return &courseFields{
		skillID:         validate.AsString(in.SkillID),
		name:            validate.AsString(in.Name),
		description:     validate.AsString(in.Description),
		startAt:         start,
		endAt:           end,
		maxParticipants: validate.AsInt(in.MaxParticipants),
		meetingURL:      validate.AsString(in.MeetingURL),
	}, nil
}

func parseCourseTime(s string) (time.Time, bool) {
	for _, layout := range courseTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type CourseService struct {
	store    CourseStore
	cache    ListingCache
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewCourseService(s CourseStore, c ListingCache, cacheTTL time.Duration, logger *slog.Logger) *CourseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseService{store: s, cache: cacheOrNoop(c), cacheTTL: cacheTTL, logger: logger, now: time.Now}
}

// List is the public catalogue, served from the cache when possible.
func (s *CourseService) List(ctx context.Context) ([]store.CourseListRow, error) {
	var rows []store.CourseListRow
	if s.cache.GetJSON(ctx, cacheKeyCourses, &rows) {
		return rows, nil
	}
	rows, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.CourseListRow{}
	}
	s.cache.SetJSON(ctx, cacheKeyCourses, rows, s.cacheTTL)
	return rows, nil
}

// Create adds a course owned by the calling coach.
func (s *CourseService) Create(ctx context.Context, coachUserID string, in CourseInput) (*models.Course, error) {
	f, err := in.parse()
	if err != nil {
		return nil, err
	}
	if err := s.requireSkill(ctx, f.skillID); err != nil {
		return nil, err
	}

	now := s.now()
	course := &models.Course{
		ID:              utils.GenerateID(),
		UserID:          coachUserID,
		SkillID:         f.skillID,
		Name:            f.name,
		Description:     f.description,
		StartAt:         f.startAt,
		EndAt:           f.endAt,
		MaxParticipants: f.maxParticipants,
		MeetingURL:      f.meetingURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, cacheKeyCourses)
	s.logger.Info("course created", "course_id", course.ID, "coach_user_id", coachUserID)
	return course, nil
}

// Update rewrites a course the calling coach owns.
func (s *CourseService) Update(ctx context.Context, coachUserID, courseID string, in CourseInput) (*models.Course, error) {
	if validate.IsNotValidString(courseID) || validate.IsNotValidUUID(courseID) {
		return nil, apperr.ErrValidation
	}
	f, err := in.parse()
	if err != nil {
		return nil, err
	}
	if err := s.requireSkill(ctx, f.skillID); err != nil {
		return nil, err
	}

	rows, err := s.store.UpdateCourseFields(ctx, courseID, coachUserID, map[string]interface{}{
		"skill_id":         f.skillID,
		"name":             f.name,
		"description":      f.description,
		"start_at":         f.startAt,
		"end_at":           f.endAt,
		"max_participants": f.maxParticipants,
		"meeting_url":      f.meetingURL,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.ErrCourseNotFound
	}
	s.cache.Delete(ctx, cacheKeyCourses)

	course, err := s.store.GetCourseByID(ctx, courseID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) requireSkill(ctx context.Context, skillID string) error {
	n, err := s.store.CountSkills(ctx, []string{skillID})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrSkillNotFound
	}
	return nil
}

type OwnCourse struct {
	store.OwnCourseRow
	Status models.CourseStatus `json:"status"`
}

// OwnCourses lists the coach's courses with participant counts and status.
func (s *CourseService) OwnCourses(ctx context.Context, coachUserID string) ([]OwnCourse, error) {
	rows, err := s.store.ListCoachOwnCourses(ctx, coachUserID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.ErrCoachNotFound
	}
	now := s.now()
	out := make([]OwnCourse, 0, len(rows))
	for _, r := range rows {
		out = append(out, OwnCourse{OwnCourseRow: r, Status: ResolveCourseStatus(now, r.StartAt, r.EndAt)})
	}
	return out, nil
}

func (s *CourseService) OwnCourse(ctx context.Context, coachUserID, courseID string) (*store.CourseDetailRow, error) {
	if validate.IsNotValidString(courseID) || validate.IsNotValidUUID(courseID) {
		return nil, apperr.ErrValidation
	}
	row, err := s.store.GetCoachOwnCourse(ctx, coachUserID, courseID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrCourseNotFound
		}
		return nil, err
	}
	return row, nil
}
