package store

import (
	"context"
	"time"

	"github.com/go-authgate/eventgate/internal/models"

	"gorm.io/gorm"
)

// ReplacePasswordReset revokes the user's outstanding resets and stores reset,
// so only the newest link works.
func (s *Store) ReplacePasswordReset(ctx context.Context, reset *models.PasswordReset) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.PasswordReset{}).
			Where("user_id = ? AND used_at IS NULL", reset.UserID).
			Update("used_at", &now).Error; err != nil {
			return err
		}
		return tx.Create(reset).Error
	})
}

func (s *Store) GetPasswordReset(ctx context.Context, id string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&reset).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &reset, nil
}

// CompletePasswordReset marks the reset used and stores the new password hash
// in one transaction. ErrResetAlreadyUsed when another request won the race.
func (s *Store) CompletePasswordReset(
	ctx context.Context,
	resetID, userID, passwordHash string,
	now time.Time,
) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PasswordReset{}).
			Where("id = ? AND user_id = ? AND used_at IS NULL", resetID, userID).
			Update("used_at", &now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrResetAlreadyUsed
		}

		result = tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("password_hash", passwordHash)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

// DeleteExpiredPasswordResets removes resets that expired before cutoff.
func (s *Store) DeleteExpiredPasswordResets(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&models.PasswordReset{})
	return result.RowsAffected, result.Error
}
