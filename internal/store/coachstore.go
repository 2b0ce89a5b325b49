package store

import (
	"context"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/models"
	"gorm.io/gorm"
)

// PromoteToCoach flips role USER->COACH and creates the coach row in one tx.
// The role update is conditional, so a concurrent promotion affects 0 rows
// and the whole transaction is rolled back with ErrNoRowsAffected.
func (s *Store) PromoteToCoach(ctx context.Context, c *models.Coach) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND role = ?", c.UserID, models.RoleUser).
			Updates(map[string]interface{}{"role": models.RoleCoach, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoRowsAffected
		}
		return tx.Create(c).Error
	})
}

func (s *Store) GetCoachByID(ctx context.Context, id string) (*models.Coach, error) {
	var c models.Coach
	if err := s.DB.WithContext(ctx).Preload("User").First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetCoachByUserID(ctx context.Context, userID string) (*models.Coach, error) {
	var c models.Coach
	if err := s.DB.WithContext(ctx).First(&c, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CoachListRow is one entry of the public coach directory.
type CoachListRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Store) ListCoaches(ctx context.Context, limit, offset int) ([]CoachListRow, error) {
	var out []CoachListRow
	err := s.DB.WithContext(ctx).
		Table("coaches AS co").
		Select("co.id, u.name").
		Joins("JOIN users u ON u.id = co.user_id").
		Order("co.created_at ASC").
		Limit(limit).
		Offset(offset).
		Scan(&out).Error
	return out, err
}

// UpdateCoachProfile rewrites the profile fields and replaces the skill links
// in one transaction.
func (s *Store) UpdateCoachProfile(ctx context.Context, coachID string, fields map[string]interface{}, skillIDs []string) error {
	fields["updated_at"] = time.Now()
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Coach{}).Where("id = ?", coachID).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoRowsAffected
		}
		if err := tx.Where("coach_id = ?", coachID).Delete(&models.CoachLinkSkill{}).Error; err != nil {
			return err
		}
		links := make([]models.CoachLinkSkill, 0, len(skillIDs))
		for _, id := range skillIDs {
			links = append(links, models.CoachLinkSkill{CoachID: coachID, SkillID: id})
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}

func (s *Store) ListCoachSkillIDs(ctx context.Context, coachID string) ([]string, error) {
	var ids []string
	err := s.DB.WithContext(ctx).Model(&models.CoachLinkSkill{}).
		Where("coach_id = ?", coachID).
		Order("created_at ASC").
		Pluck("skill_id", &ids).Error
	return ids, err
}
