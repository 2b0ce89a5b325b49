package store

import (
	"context"

	"github.com/madhava-poojari/coursebook-api/internal/models"
)

func (s *Store) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var out []models.Skill
	err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (s *Store) SkillNameExists(ctx context.Context, name string) (bool, error) {
	var cnt int64
	err := s.DB.WithContext(ctx).Model(&models.Skill{}).Where("name = ?", name).Count(&cnt).Error
	return cnt > 0, err
}

func (s *Store) CreateSkill(ctx context.Context, sk *models.Skill) error {
	return s.DB.WithContext(ctx).Create(sk).Error
}

// DeleteSkill does not touch courses or coach links that reference the skill.
func (s *Store) DeleteSkill(ctx context.Context, id string) (int64, error) {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Skill{})
	return res.RowsAffected, res.Error
}

// CountSkills returns how many of ids exist.
func (s *Store) CountSkills(ctx context.Context, ids []string) (int64, error) {
	var cnt int64
	err := s.DB.WithContext(ctx).Model(&models.Skill{}).Where("id IN ?", ids).Count(&cnt).Error
	return cnt, err
}
