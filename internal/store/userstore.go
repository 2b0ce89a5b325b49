package store

import (
	"context"
	"fmt"
	"time"

	"github.com/madhava-poojari/coursebook-api/internal/models"
)

/* ------------------ User CRUD ------------------ */

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.DB.WithContext(ctx).Create(u).Error
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&cnt).Error
	return cnt > 0, err
}

// UpdateUserName only applies while the stored name is still oldName.
func (s *Store) UpdateUserName(ctx context.Context, id, oldName, newName string) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND name = ?", id, oldName).
		Updates(map[string]interface{}{"name": newName, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, hash string) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": hash, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

// SetUserRoleByEmail moves a USER account to role. Coaches are skipped so no
// Coach row is left behind.
func (s *Store) SetUserRoleByEmail(ctx context.Context, email string, role models.Role) (int64, error) {
	if !role.Valid() {
		return 0, fmt.Errorf("invalid role %q", role)
	}
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND role = ?", email, models.RoleUser).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
