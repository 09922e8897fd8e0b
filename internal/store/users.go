package store

import (
	"context"
	"strings"

	"github.com/go-authgate/eventgate/internal/models"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts user, lower-casing its email. ErrEmailTaken on conflict.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	return translate(s.db.WithContext(ctx).Create(user).Error, ErrEmailTaken)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &user, nil
}

// GetUserByEmail matches case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&user).
		Error
	if err != nil {
		return nil, translate(err, nil)
	}
	return &user, nil
}

// UpdateUserEmail changes the email of user id. ErrEmailTaken on conflict.
func (s *Store) UpdateUserEmail(ctx context.Context, id, email string) error {
	return s.updateUser(ctx, id, "email", normalizeEmail(email), ErrEmailTaken)
}

func (s *Store) UpdateUserFullName(ctx context.Context, id, fullName string) error {
	return s.updateUser(ctx, id, "full_name", fullName, nil)
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return s.updateUser(ctx, id, "password_hash", passwordHash, nil)
}

func (s *Store) updateUser(ctx context.Context, id, column string, value any, dup error) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		return translate(result.Error, dup)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
