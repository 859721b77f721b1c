package repository

import (
	"time"

	"github.com/lexxo/lexxo-backend/internal/app/model"
	"github.com/lexxo/lexxo-backend/pkg/logger"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Replace(reset *model.PasswordResetRequest) error
	FindByOTP(otp string) (*model.PasswordResetRequest, error)
	DeleteExpired() (int64, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

// Replace removes any existing reset request for the user and inserts the
// new one, atomically. Keeps the one-live-request-per-user invariant even
// under concurrent forgot-password calls.
func (r *passwordResetRepository) Replace(reset *model.PasswordResetRequest) error {
	logger.Debug("Replacing password reset request in database", map[string]interface{}{
		"user_id": reset.UserID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", reset.UserID).
			Delete(&model.PasswordResetRequest{}).Error; err != nil {
			return err
		}
		return tx.Create(reset).Error
	})
	if err != nil {
		logger.Error("Failed to replace password reset request in database", err, map[string]interface{}{
			"user_id": reset.UserID,
		})
		return err
	}

	return nil
}

func (r *passwordResetRepository) FindByOTP(otp string) (*model.PasswordResetRequest, error) {
	logger.Debug("Finding password reset request by OTP in database")

	var reset model.PasswordResetRequest
	if err := r.db.Where("otp = ?", otp).First(&reset).Error; err != nil {
		return nil, err
	}

	return &reset, nil
}

func (r *passwordResetRepository) DeleteExpired() (int64, error) {
	result := r.db.Where("otp_expires < ?", time.Now()).Delete(&model.PasswordResetRequest{})
	if result.Error != nil {
		logger.Error("Failed to delete expired password reset requests", result.Error)
		return 0, result.Error
	}

	logger.Debug("Expired password reset requests deleted from database", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
