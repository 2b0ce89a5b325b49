package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/models"
	"github.com/madhava-poojari/coursebook-api/internal/store"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
	"github.com/madhava-poojari/coursebook-api/internal/validate"
)

type CoachService struct {
	store  CoachStore
	logger *slog.Logger
	now    func() time.Time
}

func NewCoachService(s CoachStore, logger *slog.Logger) *CoachService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CoachService{store: s, logger: logger, now: time.Now}
}

// List pages through the coach directory; page is zero based.
func (c *CoachService) List(ctx context.Context, per, page string) ([]store.CoachListRow, error) {
	perN, err1 := strconv.Atoi(per)
	pageN, err2 := strconv.Atoi(page)
	if err1 != nil || err2 != nil || perN < 0 || pageN < 0 {
		return nil, apperr.ErrValidation
	}
	if perN == 0 {
		return []store.CoachListRow{}, nil
	}
	rows, err := c.store.ListCoaches(ctx, perN, pageN*perN)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []store.CoachListRow{}
	}
	return rows, nil
}

type CoachUserView struct {
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

type CoachProfile struct {
	User  CoachUserView `json:"user"`
	Coach *models.Coach `json:"coach"`
}

func (c *CoachService) Get(ctx context.Context, coachID string) (*CoachProfile, error) {
	if validate.IsNotValidString(coachID) || validate.IsNotValidUUID(coachID) {
		return nil, apperr.ErrValidation
	}
	coach, err := c.store.GetCoachByID(ctx, coachID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrCoachNotFound
		}
		return nil, err
	}
	return &CoachProfile{
		User:  CoachUserView{Name: coach.User.Name, Role: coach.User.Role},
		Coach: coach,
	}, nil
}

func (c *CoachService) Courses(ctx context.Context, coachID string) ([]store.CoachCourseRow, error) {
	if validate.IsNotValidString(coachID) || validate.IsNotValidUUID(coachID) {
		return nil, apperr.ErrValidation
	}
	rows, err := c.store.ListCoursesByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.ErrCoachNotFound
	}
	return rows, nil
}

type PromoteResult struct {
	User  CoachUserView `json:"user"`
	Coach *models.Coach `json:"coach"`
}

// Promote turns a USER into a COACH and creates the coach profile.
func (c *CoachService) Promote(ctx context.Context, userID string, experienceYears, description, profileImageURL interface{}) (*PromoteResult, error) {
	if validate.IsNotValidUUID(userID) ||
		validate.IsUndefined(experienceYears) || validate.IsNotValidInteger(experienceYears) ||
		validate.AnyUndefinedOrNotString(description) {
		return nil, apperr.ErrValidation
	}
	imageURL, ok := optionalSecureURL(profileImageURL)
	if !ok {
		return nil, apperr.ErrValidation
	}

	user, err := c.store.GetUserByID(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	if user.Role == models.RoleCoach {
		return nil, apperr.ErrAlreadyCoach
	}

	now := c.now()
	coach := &models.Coach{
		ID:              utils.GenerateID(),
		UserID:          userID,
		ExperienceYears: validate.AsInt(experienceYears),
		Description:     validate.AsString(description),
		ProfileImageURL: imageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := c.store.PromoteToCoach(ctx, coach); err != nil {
		switch {
		case errors.Is(err, store.ErrNoRowsAffected):
			return nil, apperr.ErrUpdateFailed
		case store.IsDuplicate(err):
			return nil, apperr.ErrAlreadyCoach
		}
		return nil, err
	}
	c.logger.Info("user promoted to coach", "user_id", userID, "coach_id", coach.ID)
	return &PromoteResult{
		User:  CoachUserView{Name: user.Name, Role: models.RoleCoach},
		Coach: coach,
	}, nil
}

// UpdateProfile rewrites the caller's coach profile and replaces its skills.
// It returns the stored profile image URL.
func (c *CoachService) UpdateProfile(ctx context.Context, userID string, experienceYears, description, profileImageURL, skillIDs interface{}) (string, error) {
	if validate.IsUndefined(experienceYears) || validate.IsNotValidInteger(experienceYears) ||
		validate.AnyUndefinedOrNotString(description) ||
		validate.IsUndefined(profileImageURL) || validate.IsNotSecureURL(profileImageURL) {
		return "", apperr.ErrValidation
	}
	ids, ok := uuidList(skillIDs)
	if !ok || len(ids) == 0 {
		return "", apperr.ErrValidation
	}

	coach, err := c.store.GetCoachByUserID(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return "", apperr.ErrCoachNotFound
		}
		return "", err
	}
	n, err := c.store.CountSkills(ctx, ids)
	if err != nil {
		return "", err
	}
	if n != int64(len(ids)) {
		return "", apperr.ErrSkillNotFound
	}

	imageURL := validate.AsString(profileImageURL)
	fields := map[string]interface{}{
		"experience_years":  validate.AsInt(experienceYears),
		"description":       validate.AsString(description),
		"profile_image_url": imageURL,
	}
	if err := c.store.UpdateCoachProfile(ctx, coach.ID, fields, ids); err != nil {
		if errors.Is(err, store.ErrNoRowsAffected) {
			return "", apperr.ErrUpdateFailed
		}
		return "", err
	}
	return imageURL, nil
}

type OwnCoachProfile struct {
	ID              string   `json:"id"`
	ExperienceYears int      `json:"experience_years"`
	Description     string   `json:"description"`
	ProfileImageURL *string  `json:"profile_image_url"`
	SkillIDs        []string `json:"skill_ids"`
}

func (c *CoachService) OwnProfile(ctx context.Context, userID string) (*OwnCoachProfile, error) {
	coach, err := c.store.GetCoachByUserID(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.ErrCoachNotFound
		}
		return nil, err
	}
	ids, err := c.store.ListCoachSkillIDs(ctx, coach.ID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return &OwnCoachProfile{
		ID:              coach.ID,
		ExperienceYears: coach.ExperienceYears,
		Description:     coach.Description,
		ProfileImageURL: coach.ProfileImageURL,
		SkillIDs:        ids,
	}, nil
}

// optionalSecureURL accepts a missing or empty value, otherwise an https URL.
func optionalSecureURL(v interface{}) (*string, bool) {
	if validate.IsUndefined(v) {
		return nil, true
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, true
	}
	if validate.IsNotSecureURL(v) {
		return nil, false
	}
	s := validate.AsString(v)
	return &s, true
}

// uuidList accepts a JSON array of canonical UUID strings, dropping repeats.
func uuidList(v interface{}) ([]string, bool) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if validate.IsNotValidString(item) || validate.IsNotValidUUID(item) {
			return nil, false
		}
		id := item.(string)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, true
}
